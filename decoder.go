package avif

import (
	"github.com/vegidio/goavif/codec"
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bmff"
)

// metaBoxType is the only top-level box this decoder looks for; "ftyp" and
// its brand list are neither required nor checked.
const metaBoxType = "meta"

// Decoder orchestrates the full read-to-Image pipeline described in
// spec.md §4.10: parse the container's item table, resolve the primary
// item and its auxiliary/metadata siblings, plan and read sample extents,
// delegate AV1 sample decoding to Codec, and reassemble image grids.
//
// A Decoder is single-use and strictly synchronous: Parse then Decode run
// on the calling goroutine with no concurrency of their own, matching the
// orchestration contract's single-threaded requirement.
type Decoder struct {
	io      codec.IO
	codec   codec.Decoder
	options Options

	meta      *bmff.MetaBox
	table     *bmff.Table
	primaryID uint32
}

// NewDecoder constructs a Decoder reading container bytes from src and
// delegating AV1 sample decoding to dec.
func NewDecoder(src codec.IO, dec codec.Decoder, opts Options) *Decoder {
	return &Decoder{io: src, codec: dec, options: opts}
}

// Parse reads the whole container, locates and parses the "meta" box,
// builds the item table, and resolves the primary item id. It must be
// called once before Decode.
func (d *Decoder) Parse() error {
	size, known := d.io.Size()
	if !known {
		return averr.New(averr.WaitingOnIo)
	}
	data, err := d.io.ReadExact(0, size)
	if err != nil {
		return averr.Wrap(averr.IoError, err, "reading container")
	}

	metaPayload, err := findMetaBox(data)
	if err != nil {
		return err
	}

	meta, err := bmff.ParseMeta(metaPayload)
	if err != nil {
		return err
	}
	if !meta.HasPrimary {
		return averr.New(averr.MissingImageItem)
	}

	table, err := bmff.BuildTable(meta)
	if err != nil {
		return err
	}
	if err := table.HarvestSpatialExtents(d.options.sizeLimit(), d.options.dimensionLimit(), true); err != nil {
		return err
	}

	d.meta = meta
	d.table = table
	d.primaryID = meta.PrimaryItemID
	d.logDebug("parsed meta box", map[string]any{"items": table.Len(), "primary_item": d.primaryID})
	return nil
}

// findMetaBox walks the top-level boxes of a container looking for "meta".
// It reimplements a minimal top-level walk rather than importing
// internal/bmff's unexported walkBoxes, since that helper operates on
// box payloads one level down from the file root.
func findMetaBox(data []byte) ([]byte, error) {
	pos := 0
	for pos+8 <= len(data) {
		size := be32(data[pos:])
		boxType := string(data[pos+4 : pos+8])
		headerLen := 8
		boxSize := uint64(size)
		if size == 1 {
			if pos+16 > len(data) {
				return nil, averr.New(averr.TruncatedData)
			}
			boxSize = be64(data[pos+8:])
			headerLen = 16
		} else if size == 0 {
			boxSize = uint64(len(data) - pos)
		}
		if boxSize < uint64(headerLen) || pos+int(boxSize) > len(data) {
			return nil, averr.New(averr.TruncatedData)
		}
		if boxType == metaBoxType {
			return data[pos+headerLen : pos+int(boxSize)], nil
		}
		pos += int(boxSize)
	}
	return nil, averr.Newf(averr.BmffParseFailed, "no %q box found", metaBoxType)
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) uint64 {
	return uint64(be32(b))<<32 | uint64(be32(b[4:]))
}

// Decode resolves the primary item (reassembling a grid if the primary
// item is one), decodes its color samples through Codec, and attaches
// whatever alpha/gain-map/Exif/XMP siblings the item table discovered.
func (d *Decoder) Decode() (*Image, error) {
	if d.table == nil {
		return nil, averr.New(averr.InvalidArgument)
	}

	primary, ok := d.table.Get(d.primaryID)
	if !ok || primary.ShouldSkip() {
		return nil, averr.New(averr.MissingImageItem)
	}

	color, width, height, depth, err := d.decodeItemImage(primary, codec.CategoryColor)
	if err != nil {
		return nil, averr.Wrap(averr.DecodeColorFailed, err, "decoding primary item %d", primary.ID)
	}

	img := &Image{Width: width, Height: height, Depth: depth, Color: color}

	if clli, ok := primary.ContentLightLevel(); ok {
		img.ClliMaxCLL, img.ClliMaxPALL = clli.MaxCLL, clli.MaxPALL
	}

	for _, id := range d.table.IDs() {
		it, _ := d.table.Get(id)
		switch {
		case it.AuxForID == d.primaryID && it.IsAuxiliaryAlpha():
			alpha, _, _, _, err := d.decodeItemImage(it, codec.CategoryAlpha)
			if err != nil {
				return nil, averr.Wrap(averr.DecodeAlphaFailed, err, "decoding alpha item %d", it.ID)
			}
			img.Alpha = alpha
		case it.IsTmap():
			gainItem, err := d.resolveGainMapItem(it)
			if err != nil {
				return nil, averr.Wrap(averr.DecodeGainMapFailed, err, "resolving gain-map item for tmap %d", it.ID)
			}
			gainColor, gw, gh, gd, err := d.decodeItemImage(gainItem, codec.CategoryGainMap)
			if err != nil {
				return nil, averr.Wrap(averr.DecodeGainMapFailed, err, "decoding gain-map item %d", gainItem.ID)
			}
			img.GainMap = &Image{Width: gw, Height: gh, Depth: gd, Color: gainColor}
		case it.IsExif(d.primaryID) && !d.options.IgnoreExif:
			payload, err := d.readItemPayload(it)
			if err != nil {
				return nil, err
			}
			if err := bmff.VerifyExifHeader(payload); err != nil {
				return nil, err
			}
			img.Exif = payload
		case it.IsXmp(d.primaryID) && !d.options.IgnoreXMP:
			payload, err := d.readItemPayload(it)
			if err != nil {
				return nil, err
			}
			img.XMP = payload
		}
	}

	return img, nil
}

// decodeItemImage resolves it (reassembling tiles if it is a grid) into a
// decoded codec.Image for the given category.
func (d *Decoder) decodeItemImage(it *bmff.Item, category codec.Category) (*codec.Image, int, int, int, error) {
	if it.ItemType == "grid" {
		return d.decodeGrid(it, category)
	}

	payload, err := d.readItemPayload(it)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	if err := d.codec.Initialize(0, false); err != nil {
		return nil, 0, 0, 0, averr.Wrap(averr.NoCodecAvailable, err, "initializing codec")
	}
	out := &codec.Image{}
	if err := d.codec.GetNextImage(payload, -1, out, category); err != nil {
		return nil, 0, 0, 0, err
	}
	return out, int(it.Width), int(it.Height), out.Depth, nil
}

// decodeGrid reassembles a grid item's tiles into a single codec.Image,
// validating that every tile shares the grid's codec configuration.
func (d *Decoder) decodeGrid(grid *bmff.Item, category codec.Category) (*codec.Image, int, int, int, error) {
	if err := d.table.ValidateGridCoherence(grid); err != nil {
		return nil, 0, 0, 0, err
	}

	tileIDs, err := bmff.TileIDs(d.table, grid)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	if len(tileIDs) == 0 {
		return nil, 0, 0, 0, averr.New(averr.InvalidImageGrid)
	}

	gridInfo, err := bmff.ParseGrid(firstTileDerivationPayload(grid), d.options.sizeLimit(), d.options.dimensionLimit())
	if err != nil {
		return nil, 0, 0, 0, err
	}

	tiles := make([]*codec.Image, len(tileIDs))
	for i, id := range tileIDs {
		tile, ok := d.table.Get(id)
		if !ok {
			return nil, 0, 0, 0, averr.Newf(averr.BmffParseFailed, "grid tile %d not found", id)
		}
		payload, err := d.readItemPayload(tile)
		if err != nil {
			return nil, 0, 0, 0, err
		}
		if err := d.codec.Initialize(0, false); err != nil {
			return nil, 0, 0, 0, averr.Wrap(averr.NoCodecAvailable, err, "initializing codec")
		}
		out := &codec.Image{}
		if err := d.codec.GetNextImage(payload, -1, out, category); err != nil {
			return nil, 0, 0, 0, err
		}
		tiles[i] = out
	}

	merged := assembleGrid(tiles, gridInfo)
	return merged, int(gridInfo.OutputWidth), int(gridInfo.OutputHeight), merged.Depth, nil
}

// resolveGainMapItem picks the gain-map pixel item out of a "tmap" derived
// item's "dimg" references. A tone-mapped item derives from exactly two
// images ordered by dimg_index: the reconstructed base image, then the
// alternate gain-map image. Only the latter carries new pixel data worth
// attaching to Image.GainMap; the base image is already the primary item.
func (d *Decoder) resolveGainMapItem(tmap *bmff.Item) (*bmff.Item, error) {
	refs, err := bmff.TileIDs(d.table, tmap)
	if err != nil {
		return nil, err
	}
	if len(refs) != 2 {
		return nil, averr.Newf(averr.InvalidToneMappedImage, "tmap item %d has %d dimg references, want 2", tmap.ID, len(refs))
	}
	gainItem, ok := d.table.Get(refs[len(refs)-1])
	if !ok {
		return nil, averr.Newf(averr.BmffParseFailed, "tmap %d references unknown gain-map item", tmap.ID)
	}
	return gainItem, nil
}

// firstTileDerivationPayload returns the grid item's own payload (the
// derivation bitstream lives on the grid item itself, not its tiles).
func firstTileDerivationPayload(grid *bmff.Item) []byte {
	return grid.Idat
}

// assembleGrid stitches tile images into one codec.Image in row-major
// raster order, cropping the last row/column of tiles to the grid's
// declared output dimensions (spec.md §4.3).
func assembleGrid(tiles []*codec.Image, grid bmff.Grid) *codec.Image {
	tileW, tileH := tiles[0].Width, tiles[0].Height
	out := &codec.Image{
		Width: int(grid.OutputWidth), Height: int(grid.OutputHeight),
		Depth:              tiles[0].Depth,
		MonoChrome:         tiles[0].MonoChrome,
		ChromaSubsamplingX: tiles[0].ChromaSubsamplingX,
		ChromaSubsamplingY: tiles[0].ChromaSubsamplingY,
	}

	bytesPerSample := 1
	if out.Depth > 8 {
		bytesPerSample = 2
	}
	planes := 3
	if out.MonoChrome {
		planes = 1
	}

	for p := 0; p < planes; p++ {
		planeW, planeH := out.Width, out.Height
		tw, th := tileW, tileH
		if p > 0 {
			if out.ChromaSubsamplingX {
				planeW = (planeW + 1) / 2
				tw = (tw + 1) / 2
			}
			if out.ChromaSubsamplingY {
				planeH = (planeH + 1) / 2
				th = (th + 1) / 2
			}
		}
		stride := planeW * bytesPerSample
		buf := make([]byte, stride*planeH)

		for ty := 0; ty < grid.Rows; ty++ {
			for tx := 0; tx < grid.Columns; tx++ {
				tile := tiles[ty*grid.Columns+tx]
				tStride := tile.Strides[p]
				tBuf := tile.Planes[p]

				copyH := th
				if (ty+1)*th > planeH {
					copyH = planeH - ty*th
				}
				copyW := tw * bytesPerSample
				if (tx+1)*tw*bytesPerSample > stride {
					copyW = stride - tx*tw*bytesPerSample
				}
				if copyH <= 0 || copyW <= 0 {
					continue
				}

				for row := 0; row < copyH; row++ {
					srcOff := row * tStride
					dstOff := (ty*th+row)*stride + tx*tw*bytesPerSample
					copy(buf[dstOff:dstOff+copyW], tBuf[srcOff:srcOff+copyW])
				}
			}
		}

		out.Planes[p] = buf
		out.Strides[p] = stride
	}

	return out
}

// readItemPayload concatenates every extent of it into a single buffer,
// reading inline ("idat") storage directly and file-backed storage through
// the configured codec.IO.
func (d *Decoder) readItemPayload(it *bmff.Item) ([]byte, error) {
	if it.Size == 0 {
		return nil, averr.New(averr.TruncatedData)
	}
	if it.Idat != nil {
		if it.Size > uint64(len(it.Idat)) {
			return nil, averr.New(averr.TruncatedData)
		}
		return it.Idat[:it.Size], nil
	}

	extents, err := bmff.MaxExtent(it, bmff.Sample{Offset: 0, Size: it.Size})
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, it.Size)
	for _, e := range extents {
		chunk, err := d.io.ReadExact(e.Offset, e.Size)
		if err != nil {
			return nil, averr.Wrap(averr.IoError, err, "reading extent at offset %d", e.Offset)
		}
		out = append(out, chunk...)
	}
	return out, nil
}
