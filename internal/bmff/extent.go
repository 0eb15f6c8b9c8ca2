package bmff

import "github.com/vegidio/goavif/internal/averr"

// Sample is a logical (offset, size) range within an item's concatenated
// payload, as requested by a codec decoding a single AV1 sample out of a
// (possibly multi-extent) item.
type Sample struct {
	Offset uint64
	Size   uint64
}

// MaxExtent computes the minimal set of file-level byte ranges that must be
// read to satisfy sample, per spec.md §4.4. Items stored inline via "idat"
// need no file read and return a single zero extent; items backed by a
// single storage extent return that extent directly once clipped; items
// spread across multiple extents are walked accumulating offsets until the
// requested range is covered.
func MaxExtent(it *Item, sample Sample) ([]Extent, error) {
	if sample.Size == 0 {
		return nil, averr.New(averr.TruncatedData)
	}
	if it.Idat != nil {
		return []Extent{{}}, nil
	}
	if len(it.Extents) == 0 {
		return nil, averr.New(averr.MissingImageItem)
	}

	if len(it.Extents) == 1 {
		e := it.Extents[0]
		if sample.Offset >= e.Size {
			return nil, averr.New(averr.TruncatedData)
		}
		offset := e.Offset + sample.Offset
		remaining := e.Size - sample.Offset
		size := sample.Size
		if size > remaining {
			size = remaining
		}
		return []Extent{{Offset: offset, Size: size}}, nil
	}

	var out []Extent
	remainingOffset := sample.Offset
	remainingSize := sample.Size

	for _, e := range it.Extents {
		if remainingSize == 0 {
			break
		}
		if remainingOffset >= e.Size {
			remainingOffset -= e.Size
			continue
		}

		start := e.Offset + remainingOffset
		avail := e.Size - remainingOffset
		take := remainingSize
		if take > avail {
			take = avail
		}

		out = append(out, Extent{Offset: start, Size: take})
		remainingSize -= take
		remainingOffset = 0
	}

	if remainingSize > 0 {
		return nil, averr.New(averr.TruncatedData)
	}
	return out, nil
}
