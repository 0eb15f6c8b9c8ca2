package avif

// ItemInfo is a read-only summary of one item in the container's item
// table, useful for inspection tooling (see the goavifinfo CLI in cmd/).
type ItemInfo struct {
	ID        uint32
	Type      string
	Width     uint32
	Height    uint32
	Size      uint64
	IsAlpha   bool
	IsGrid    bool
	IsGainMap bool
	IsExif    bool
	IsXMP     bool
	Skipped   bool
}

// Items returns a summary of every item in the parsed container, in
// ascending item-id order.
func (d *Decoder) Items() []ItemInfo {
	ids := d.table.IDs()
	out := make([]ItemInfo, 0, len(ids))
	for _, id := range ids {
		it, _ := d.table.Get(id)
		out = append(out, ItemInfo{
			ID:        it.ID,
			Type:      it.ItemType,
			Width:     it.Width,
			Height:    it.Height,
			Size:      it.Size,
			IsAlpha:   it.IsAuxiliaryAlpha(),
			IsGrid:    it.ItemType == "grid",
			IsGainMap: it.IsTmap(),
			IsExif:    it.IsExif(d.primaryID),
			IsXMP:     it.IsXmp(d.primaryID),
			Skipped:   it.ShouldSkip(),
		})
	}
	return out
}

// PrimaryItemID returns the container's primary item id.
func (d *Decoder) PrimaryItemID() uint32 { return d.primaryID }
