package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

// iinfEntry is one "infe" entry within "iinf".
type iinfEntry struct {
	itemID      uint32
	itemType    string
	contentType string
}

// ilocExtent is one extent record within an "iloc" item entry.
type ilocExtent struct {
	offset uint64
	size   uint64
}

// ilocEntry is one "iloc" item entry.
type ilocEntry struct {
	itemID             uint32
	constructionMethod uint8
	baseOffset         uint64
	extents            []ilocExtent
}

// ipmaAssoc is one (property_index, essential) tuple within an "ipma" item
// entry.
type ipmaAssoc struct {
	propertyIndex uint16 // 1-based; 0 means "no association"
	essential     bool
}

// ipmaGroup is one top-level "ipma" item entry: an item id plus every
// property association declared for it in that entry. A given item id must
// appear in at most one group across every "ipma" box in the file
// (spec.md §3: "An item may have at most one ipma entry").
type ipmaGroup struct {
	itemID uint32
	assocs []ipmaAssoc
}

// irefEntry is one "iref" reference-type group.
type irefEntry struct {
	refType string
	fromID  uint32
	toIDs   []uint32
}

// MetaBox is the parsed "meta" box: the minimal set of BMFF sub-boxes the
// item model in spec.md §4.1 needs.
type MetaBox struct {
	PrimaryItemID uint32
	HasPrimary    bool

	Iinf []iinfEntry
	Iloc []ilocEntry
	Idat []byte

	// Properties holds the "ipco" container entries in order; ipma
	// indices are 1-based into this slice.
	Properties   []ItemProperty
	Associations []ipmaGroup

	Iref []irefEntry
}

// ParseMeta parses the payload of a top-level "meta" box.
func ParseMeta(payload []byte) (*MetaBox, error) {
	r := bitstream.NewReader(payload)
	if _, _, err := fullBoxHeader(r); err != nil {
		return nil, averr.Wrap(averr.BmffParseFailed, err, "meta: reading FullBox header")
	}

	mb := &MetaBox{}
	err := walkBoxes(r.Remaining(), func(b box) error {
		switch b.boxType {
		case "iinf":
			entries, err := parseIinf(b.payload)
			if err != nil {
				return err
			}
			mb.Iinf = entries
		case "iloc":
			entries, err := parseIloc(b.payload)
			if err != nil {
				return err
			}
			mb.Iloc = entries
		case "idat":
			mb.Idat = append([]byte(nil), b.payload...)
		case "iprp":
			props, assoc, err := parseIprp(b.payload)
			if err != nil {
				return err
			}
			mb.Properties = props
			mb.Associations = assoc
		case "iref":
			entries, err := parseIref(b.payload)
			if err != nil {
				return err
			}
			mb.Iref = entries
		case "pitm":
			id, err := parsePitm(b.payload)
			if err != nil {
				return err
			}
			mb.PrimaryItemID = id
			mb.HasPrimary = true
		default:
			// hdlr, dinf, grpl, iaux, ... are not needed by the core.
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mb, nil
}

func parsePitm(payload []byte) (uint32, error) {
	r := bitstream.NewReader(payload)
	version, _, err := fullBoxHeader(r)
	if err != nil {
		return 0, err
	}
	if version == 0 {
		id, err := r.U16()
		return uint32(id), err
	}
	return r.U32()
}

func parseIinf(payload []byte) ([]iinfEntry, error) {
	r := bitstream.NewReader(payload)
	version, _, err := fullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	var count uint32
	if version == 0 {
		c, err := r.U16()
		if err != nil {
			return nil, err
		}
		count = uint32(c)
	} else {
		c, err := r.U32()
		if err != nil {
			return nil, err
		}
		count = c
	}

	var entries []iinfEntry
	err = walkBoxes(r.Remaining(), func(b box) error {
		if b.boxType != "infe" {
			return nil
		}
		e, err := parseInfe(b.payload)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = count // declared count is advisory; the walked box count is authoritative
	return entries, nil
}

func parseInfe(payload []byte) (iinfEntry, error) {
	r := bitstream.NewReader(payload)
	version, _, err := fullBoxHeader(r)
	if err != nil {
		return iinfEntry{}, err
	}

	var e iinfEntry
	if version >= 2 {
		if version == 2 {
			id, err := r.U16()
			if err != nil {
				return iinfEntry{}, err
			}
			e.itemID = uint32(id)
		} else {
			id, err := r.U32()
			if err != nil {
				return iinfEntry{}, err
			}
			e.itemID = id
		}
		if _, err := r.U16(); err != nil { // item_protection_index
			return iinfEntry{}, err
		}
		itemType, err := r.FourCC()
		if err != nil {
			return iinfEntry{}, err
		}
		e.itemType = itemType
		if _, err := r.CString(); err != nil { // item_name
			return iinfEntry{}, err
		}
		if itemType == "mime" {
			ct, err := r.CString()
			if err != nil {
				return iinfEntry{}, err
			}
			e.contentType = ct
		}
	} else {
		id, err := r.U16()
		if err != nil {
			return iinfEntry{}, err
		}
		e.itemID = uint32(id)
	}
	return e, nil
}

func parseIloc(payload []byte) ([]ilocEntry, error) {
	r := bitstream.NewReader(payload)
	version, _, err := fullBoxHeader(r)
	if err != nil {
		return nil, err
	}

	sizesByte, err := r.U8()
	if err != nil {
		return nil, err
	}
	offsetSize := int(sizesByte >> 4)
	lengthSize := int(sizesByte & 0xF)

	sizesByte2, err := r.U8()
	if err != nil {
		return nil, err
	}
	baseOffsetSize := int(sizesByte2 >> 4)
	indexSize := 0
	if version == 1 || version == 2 {
		indexSize = int(sizesByte2 & 0xF)
	}

	var itemCount uint32
	if version < 2 {
		c, err := r.U16()
		if err != nil {
			return nil, err
		}
		itemCount = uint32(c)
	} else {
		c, err := r.U32()
		if err != nil {
			return nil, err
		}
		itemCount = c
	}

	entries := make([]ilocEntry, 0, itemCount)
	for i := uint32(0); i < itemCount; i++ {
		var e ilocEntry
		if version < 2 {
			id, err := r.U16()
			if err != nil {
				return nil, err
			}
			e.itemID = uint32(id)
		} else {
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			e.itemID = id
		}

		if version == 1 || version == 2 {
			cm, err := r.U16()
			if err != nil {
				return nil, err
			}
			e.constructionMethod = uint8(cm & 0xF)
		}

		if _, err := r.U16(); err != nil { // data_reference_index
			return nil, err
		}

		base, err := r.UintN(baseOffsetSize)
		if err != nil {
			return nil, err
		}
		e.baseOffset = base

		extentCount, err := r.U16()
		if err != nil {
			return nil, err
		}
		e.extents = make([]ilocExtent, 0, extentCount)
		for j := uint16(0); j < extentCount; j++ {
			if indexSize > 0 {
				if _, err := r.UintN(indexSize); err != nil {
					return nil, err
				}
			}
			off, err := r.UintN(offsetSize)
			if err != nil {
				return nil, err
			}
			size, err := r.UintN(lengthSize)
			if err != nil {
				return nil, err
			}
			e.extents = append(e.extents, ilocExtent{offset: off, size: size})
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseIprp(payload []byte) ([]ItemProperty, []ipmaGroup, error) {
	var props []ItemProperty
	var assoc []ipmaGroup
	seen := false

	err := walkBoxes(payload, func(b box) error {
		switch b.boxType {
		case "ipco":
			return walkBoxes(b.payload, func(pb box) error {
				p, err := parseProperty(pb)
				if err != nil {
					return err
				}
				props = append(props, p)
				return nil
			})
		case "ipma":
			entries, err := parseIpma(b.payload)
			if err != nil {
				return err
			}
			assoc = append(assoc, entries...)
			seen = true
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !seen {
		return nil, nil, averr.New(averr.BmffParseFailed)
	}
	return props, assoc, nil
}

func parseIpma(payload []byte) ([]ipmaGroup, error) {
	r := bitstream.NewReader(payload)
	version, flags, err := fullBoxHeader(r)
	if err != nil {
		return nil, err
	}
	largeIndex := flags&1 != 0

	entryCount, err := r.U32()
	if err != nil {
		return nil, err
	}

	out := make([]ipmaGroup, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		var itemID uint32
		if version < 1 {
			id, err := r.U16()
			if err != nil {
				return nil, err
			}
			itemID = uint32(id)
		} else {
			id, err := r.U32()
			if err != nil {
				return nil, err
			}
			itemID = id
		}

		assocCount, err := r.U8()
		if err != nil {
			return nil, err
		}
		group := ipmaGroup{itemID: itemID, assocs: make([]ipmaAssoc, 0, assocCount)}
		for j := uint8(0); j < assocCount; j++ {
			first, err := r.U8()
			if err != nil {
				return nil, err
			}
			essential := first&0x80 != 0
			first &^= 0x80

			var index uint16
			if largeIndex {
				second, err := r.U8()
				if err != nil {
					return nil, err
				}
				index = uint16(first)<<8 | uint16(second)
			} else {
				index = uint16(first)
			}
			group.assocs = append(group.assocs, ipmaAssoc{propertyIndex: index, essential: essential})
		}
		out = append(out, group)
	}
	return out, nil
}

func parseIref(payload []byte) ([]irefEntry, error) {
	r := bitstream.NewReader(payload)
	version, _, err := fullBoxHeader(r)
	if err != nil {
		return nil, err
	}

	var entries []irefEntry
	err = walkBoxes(r.Remaining(), func(b box) error {
		e, err := parseIrefEntry(b, version)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func parseIrefEntry(b box, version uint8) (irefEntry, error) {
	r := bitstream.NewReader(b.payload)
	e := irefEntry{refType: b.boxType}

	if version == 0 {
		from, err := r.U16()
		if err != nil {
			return irefEntry{}, err
		}
		e.fromID = uint32(from)
	} else {
		from, err := r.U32()
		if err != nil {
			return irefEntry{}, err
		}
		e.fromID = from
	}

	count, err := r.U16()
	if err != nil {
		return irefEntry{}, err
	}
	e.toIDs = make([]uint32, 0, count)
	for i := uint16(0); i < count; i++ {
		if version == 0 {
			to, err := r.U16()
			if err != nil {
				return irefEntry{}, err
			}
			e.toIDs = append(e.toIDs, uint32(to))
		} else {
			to, err := r.U32()
			if err != nil {
				return irefEntry{}, err
			}
			e.toIDs = append(e.toIDs, to)
		}
	}
	return e, nil
}
