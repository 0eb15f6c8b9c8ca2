package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

// Grid is the parsed derivation payload of a "grid" item (spec.md §4.3).
// The tile list itself is not stored here: it comes from the inverse
// "dimg" references recorded on Item.GridItemIDs during reference
// resolution.
type Grid struct {
	Rows, Columns             int
	OutputWidth, OutputHeight uint32
}

// ParseGrid decodes a grid item's derivation bitstream, honoring sizeLimit
// (total output pixels, 0 = unbounded) and dimensionLimit (max output side,
// 0 = unbounded).
func ParseGrid(data []byte, sizeLimit, dimensionLimit uint64) (Grid, error) {
	r := bitstream.NewReader(data)

	version, err := r.U8()
	if err != nil {
		return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading version")
	}
	if version != 0 {
		return Grid{}, averr.Newf(averr.InvalidImageGrid, "unsupported grid version %d", version)
	}

	flags, err := r.U8()
	if err != nil {
		return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading flags")
	}

	rowsMinusOne, err := r.U8()
	if err != nil {
		return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading rows")
	}
	colsMinusOne, err := r.U8()
	if err != nil {
		return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading columns")
	}

	var width, height uint32
	if flags&1 != 0 {
		width, err = r.U32()
		if err != nil {
			return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading output width")
		}
		height, err = r.U32()
		if err != nil {
			return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading output height")
		}
	} else {
		w16, err := r.U16()
		if err != nil {
			return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading output width")
		}
		h16, err := r.U16()
		if err != nil {
			return Grid{}, averr.Wrap(averr.InvalidImageGrid, err, "reading output height")
		}
		width, height = uint32(w16), uint32(h16)
	}

	g := Grid{
		Rows:         int(rowsMinusOne) + 1,
		Columns:      int(colsMinusOne) + 1,
		OutputWidth:  width,
		OutputHeight: height,
	}

	if g.Rows == 0 || g.Columns == 0 || g.OutputWidth == 0 || g.OutputHeight == 0 {
		return Grid{}, averr.New(averr.InvalidImageGrid)
	}
	if dimensionLimit > 0 && (uint64(g.OutputWidth) > dimensionLimit || uint64(g.OutputHeight) > dimensionLimit) {
		return Grid{}, averr.Newf(averr.InvalidImageGrid, "output dimensions exceed dimension limit")
	}
	if sizeLimit > 0 && uint64(g.OutputWidth)*uint64(g.OutputHeight) > sizeLimit {
		return Grid{}, averr.Newf(averr.InvalidImageGrid, "output dimensions exceed size limit")
	}

	return g, nil
}

// TileIDs returns the grid item's child tile ids, ordered by dimg_index
// (spec.md §4.3: "the grid tile list is obtained separately from the dimg
// references").
func TileIDs(t *Table, grid *Item) ([]uint32, error) {
	ids := make([]uint32, len(grid.GridItemIDs))
	for _, id := range grid.GridItemIDs {
		tile, ok := t.Get(id)
		if !ok {
			return nil, averr.Newf(averr.BmffParseFailed, "grid tile %d not found", id)
		}
		if int(tile.DimgIndex) >= len(ids) {
			return nil, averr.New(averr.InvalidImageGrid)
		}
		ids[tile.DimgIndex] = id
	}
	return ids, nil
}
