// Package bmff implements the ISO-BMFF item model: parsing the "meta" box
// into a keyed table of items and item properties, resolving cross
// references, and answering the discovery queries the decoder facade needs
// (color image, alpha auxiliary, gain-map, grid, Exif/XMP siblings).
package bmff

import (
	"sort"

	"github.com/vegidio/goavif/internal/averr"
)

// Extent is a single storage location of an item's payload within the
// container: a (file offset, byte size) pair.
type Extent struct {
	Offset uint64
	Size   uint64
}

// Item is an addressable payload inside the container (spec.md §3).
type Item struct {
	ID          uint32
	ItemType    string
	ContentType string

	Size    uint64
	Width   uint32
	Height  uint32
	Extents []Extent
	Idat    []byte

	Properties []ItemProperty

	ThumbnailForID uint32
	AuxForID       uint32
	DescForID      uint32
	DimgForID      uint32
	DimgIndex      uint32
	PremByID       uint32

	GridItemIDs []uint32

	HasUnsupportedEssentialProperty bool
	IsMadeUp                         bool

	// dataBuffer is never read or written: multi-extent payloads are
	// concatenated afresh on every read and not memoized.
	dataBuffer []byte
}

// CodecConfiguration returns the item's "av1C" property, if any.
func (it *Item) CodecConfiguration() (CodecConfiguration, bool) {
	for _, p := range it.Properties {
		if p.Kind == PropCodecConfiguration {
			return p.CodecConfiguration, true
		}
	}
	return CodecConfiguration{}, false
}

// SpatialExtents returns the item's "ispe" property, if any.
func (it *Item) SpatialExtents() (ImageSpatialExtents, bool) {
	for _, p := range it.Properties {
		if p.Kind == PropImageSpatialExtents {
			return p.ImageSpatialExtents, true
		}
	}
	return ImageSpatialExtents{}, false
}

// PixelInformation returns the item's "pixi" property, if any.
func (it *Item) PixelInformation() (PixelInformation, bool) {
	for _, p := range it.Properties {
		if p.Kind == PropPixelInformation {
			return p.PixelInformation, true
		}
	}
	return PixelInformation{}, false
}

// AuxiliaryType returns the item's "auxC" property, if any.
func (it *Item) AuxiliaryType() (AuxiliaryType, bool) {
	for _, p := range it.Properties {
		if p.Kind == PropAuxiliaryType {
			return p.AuxiliaryType, true
		}
	}
	return AuxiliaryType{}, false
}

// ContentLightLevel returns the item's "clli" property, if any.
func (it *Item) ContentLightLevel() (ContentLightLevelInformation, bool) {
	for _, p := range it.Properties {
		if p.Kind == PropContentLightLevelInformation {
			return p.ContentLightLevelInformation, true
		}
	}
	return ContentLightLevelInformation{}, false
}

// ShouldSkip implements spec.md §4.2 should_skip.
func (it *Item) ShouldSkip() bool {
	if it.Size == 0 {
		return true
	}
	if it.HasUnsupportedEssentialProperty {
		return true
	}
	if it.ItemType != "av01" && it.ItemType != "grid" {
		return true
	}
	if it.ThumbnailForID != 0 {
		return true
	}
	return false
}

// IsAuxiliaryAlpha implements spec.md §4.2 is_auxiliary_alpha.
func (it *Item) IsAuxiliaryAlpha() bool {
	aux, ok := it.AuxiliaryType()
	return ok && aux.IsAlpha()
}

// IsExif implements spec.md §4.2 is_exif. colorID == 0 is a wildcard
// matching any descriptor relationship (see DESIGN.md for the resolved
// Open Question).
func (it *Item) IsExif(colorID uint32) bool {
	if it.ItemType != "Exif" || it.Size == 0 || it.HasUnsupportedEssentialProperty {
		return false
	}
	return colorID == 0 || it.DescForID == colorID
}

// IsXmp implements spec.md §4.2 is_xmp.
func (it *Item) IsXmp(colorID uint32) bool {
	if it.ItemType != "mime" || it.ContentType != "application/rdf+xml" || it.HasUnsupportedEssentialProperty {
		return false
	}
	return colorID == 0 || it.DescForID == colorID
}

// IsTmap implements spec.md §4.2 is_tmap.
func (it *Item) IsTmap() bool {
	return it.ItemType == "tmap" && it.ThumbnailForID == 0
}

// Table is the keyed mapping item_id -> Item (spec.md §9: "a deterministic
// hashing strategy is required when the output must be reproducible").
type Table struct {
	items map[uint32]*Item
}

// Get looks up an item by id.
func (t *Table) Get(id uint32) (*Item, bool) {
	it, ok := t.items[id]
	return it, ok
}

// Len returns the number of items in the table.
func (t *Table) Len() int { return len(t.items) }

// IDs returns every item id in ascending order, giving a stable iteration
// order independent of Go's randomized map iteration.
func (t *Table) IDs() []uint32 {
	ids := make([]uint32, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BuildTable runs the four-pass item-table construction algorithm of
// spec.md §4.1 over a parsed MetaBox.
func BuildTable(meta *MetaBox) (*Table, error) {
	t := &Table{items: make(map[uint32]*Item, len(meta.Iinf))}

	// Pass 1: seed from iinf.
	for _, e := range meta.Iinf {
		if _, exists := t.items[e.itemID]; exists {
			return nil, averr.Newf(averr.BmffParseFailed, "duplicate iinf entry for item %d", e.itemID)
		}
		t.items[e.itemID] = &Item{
			ID:          e.itemID,
			ItemType:    e.itemType,
			ContentType: e.contentType,
		}
	}

	// Pass 2: attach storage from iloc.
	for _, e := range meta.Iloc {
		it, ok := t.items[e.itemID]
		if !ok {
			return nil, averr.Newf(averr.BmffParseFailed, "iloc references unknown item %d", e.itemID)
		}
		if len(it.Extents) != 0 || it.Idat != nil {
			return nil, averr.Newf(averr.BmffParseFailed, "duplicate iloc entry for item %d", e.itemID)
		}

		if e.constructionMethod == 1 {
			it.Idat = meta.Idat
		}

		for _, ext := range e.extents {
			offset := e.baseOffset + ext.offset
			if offset < e.baseOffset {
				return nil, averr.Newf(averr.BmffParseFailed, "iloc offset overflow for item %d", e.itemID)
			}
			newSize := it.Size + ext.size
			if newSize < it.Size {
				return nil, averr.Newf(averr.BmffParseFailed, "iloc size overflow for item %d", e.itemID)
			}
			it.Size = newSize
			it.Extents = append(it.Extents, Extent{Offset: offset, Size: ext.size})
		}
	}

	// Pass 3: attach properties from iprp.associations. Each item may
	// appear as a top-level ipma entry ("group") at most once; the
	// individual property associations within that one group are not
	// duplicates of each other.
	seenGroup := make(map[uint32]bool, len(meta.Associations))
	for _, g := range meta.Associations {
		it, ok := t.items[g.itemID]
		if !ok {
			return nil, averr.Newf(averr.BmffParseFailed, "ipma references unknown item %d", g.itemID)
		}
		if seenGroup[g.itemID] {
			return nil, averr.Newf(averr.BmffParseFailed, "duplicate ipma entry for item %d", g.itemID)
		}
		seenGroup[g.itemID] = true

		for _, a := range g.assocs {
			if a.propertyIndex == 0 {
				continue // "no association"
			}
			idx := int(a.propertyIndex) - 1
			if idx < 0 || idx >= len(meta.Properties) {
				return nil, averr.Newf(averr.BmffParseFailed, "ipma property_index %d out of range for item %d", a.propertyIndex, g.itemID)
			}
			prop := meta.Properties[idx]

			switch prop.Kind {
			case PropAV1LayeredImageIndexing:
				if a.essential {
					return nil, averr.New(averr.BmffParseFailed)
				}
			case PropOperatingPointSelector, PropLayerSelector:
				if !a.essential {
					return nil, averr.New(averr.BmffParseFailed)
				}
			case PropUnknown:
				if a.essential {
					it.HasUnsupportedEssentialProperty = true
					continue
				}
			}

			it.Properties = append(it.Properties, prop)
		}
	}

	// Pass 4: resolve references from iref.
	for _, e := range meta.Iref {
		switch e.refType {
		case "thmb":
			setRelationship(t, e, func(it *Item, from uint32) { it.ThumbnailForID = from })
		case "auxl":
			setRelationship(t, e, func(it *Item, from uint32) { it.AuxForID = from })
		case "cdsc":
			setRelationship(t, e, func(it *Item, from uint32) { it.DescForID = from })
		case "prem":
			setRelationship(t, e, func(it *Item, from uint32) { it.PremByID = from })
		case "dimg":
			for idx, toID := range e.toIDs {
				if it, ok := t.items[toID]; ok {
					it.DimgForID = e.fromID
					it.DimgIndex = uint32(idx)
				}
			}
			if grid, ok := t.items[e.fromID]; ok {
				grid.GridItemIDs = append(grid.GridItemIDs, e.toIDs...)
			}
		default:
			// unknown reference types are ignored silently
		}
	}

	return t, nil
}

func setRelationship(t *Table, e irefEntry, set func(it *Item, from uint32)) {
	for _, toID := range e.toIDs {
		if it, ok := t.items[toID]; ok {
			set(it, e.fromID)
		}
	}
}

// HarvestSpatialExtents copies ispe width/height into every coded-image and
// grid item, enforcing sizeLimit (total pixels, 0 = unbounded) and
// dimensionLimit (max side, 0 = unbounded). A coded image item without
// ImageSpatialExtents fails unless it is an alpha auxiliary and
// relaxedAlpha is set (spec.md §3 invariants).
func (t *Table) HarvestSpatialExtents(sizeLimit, dimensionLimit uint64, relaxedAlpha bool) error {
	for _, id := range t.IDs() {
		it := t.items[id]
		if it.ItemType != "av01" && it.ItemType != "grid" {
			continue
		}

		ispe, ok := it.SpatialExtents()
		if !ok {
			if relaxedAlpha && it.IsAuxiliaryAlpha() {
				continue
			}
			return averr.Newf(averr.BmffParseFailed, "item %d (%s) missing ispe", it.ID, it.ItemType)
		}

		if ispe.Width == 0 || ispe.Height == 0 {
			return averr.Newf(averr.BmffParseFailed, "item %d has zero dimension", it.ID)
		}
		if dimensionLimit > 0 && (uint64(ispe.Width) > dimensionLimit || uint64(ispe.Height) > dimensionLimit) {
			return averr.Newf(averr.InvalidImageGrid, "item %d exceeds dimension limit", it.ID)
		}
		if sizeLimit > 0 && uint64(ispe.Width)*uint64(ispe.Height) > sizeLimit {
			return averr.Newf(averr.InvalidImageGrid, "item %d exceeds size limit", it.ID)
		}

		it.Width = ispe.Width
		it.Height = ispe.Height
	}
	return nil
}

// ValidateGridCoherence checks that every tile referenced by grid shares the
// grid item's CodecConfiguration byte-for-byte (spec.md §3, §8 scenario 4).
func (t *Table) ValidateGridCoherence(grid *Item) error {
	gridCfg, ok := grid.CodecConfiguration()
	if !ok {
		return averr.New(averr.BmffParseFailed)
	}
	for _, tileID := range grid.GridItemIDs {
		tile, ok := t.Get(tileID)
		if !ok {
			return averr.Newf(averr.BmffParseFailed, "grid references unknown tile %d", tileID)
		}
		tileCfg, ok := tile.CodecConfiguration()
		if !ok || !tileCfg.Equal(gridCfg) {
			return averr.Newf(averr.BmffParseFailed, "av1c of grid items do not match")
		}
	}
	return nil
}

