package reformat

import "github.com/vegidio/goavif/internal/averr"

// ChromaSamplePosition mirrors the av1C chroma_sample_position field.
type ChromaSamplePosition int

const (
	ChromaUnknown ChromaSamplePosition = iota
	ChromaVertical
	ChromaColocated
	ChromaCenter
)

// Upsampling selects the chroma upsampling filter used when chroma planes
// are subsampled relative to luma.
type Upsampling int

const (
	UpsamplingNearest Upsampling = iota
	UpsamplingBilinear
)

// Plane is a single decoded image plane, already unpacked from its wire
// representation (8-bit bytes or native-endian 10/12-bit words) into plain
// integer codes, to keep the per-pixel core free of byte-packing concerns.
type Plane struct {
	Width, Height int
	Stride        int // elements per row, may exceed Width
	Samples       []int
}

// At returns the sample at (x, y), clamping out-of-range coordinates to the
// plane edge (used by bilinear chroma upsampling near image borders).
func (p *Plane) At(x, y int) int {
	if x < 0 {
		x = 0
	}
	if x >= p.Width {
		x = p.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.Height {
		y = p.Height - 1
	}
	return p.Samples[y*p.Stride+x]
}

// Image is the generic reformatter's input: luma plus optional subsampled
// chroma planes, at a single bit depth, in a known range.
type Image struct {
	Width, Height int
	Depth         int
	FullRange     bool
	MonoChrome    bool

	ChromaSamplePosition ChromaSamplePosition
	ChromaSubsamplingX   bool
	ChromaSubsamplingY   bool

	Y, U, V *Plane
}

// RGB is the generic reformatter's output: an interleaved raster in any of
// the spec.md §6 pixel formats, at 8 or 16 bits per channel (Depth is
// ignored for FormatRGB565, which is always a packed 16-bit pixel).
type RGB struct {
	Width, Height int
	Stride        int // bytes per row
	Format        PixelFormat
	Depth         int
	Pixels        []byte
}

// depthOrDefault returns rgb.Depth, defaulting the zero value to 8 so an
// RGB built without an explicit Depth behaves as 8-bit-per-channel.
func (rgb *RGB) depthOrDefault() int {
	if rgb.Depth == 0 {
		return 8
	}
	return rgb.Depth
}

// channelBytes returns the byte width of one channel: 1 for 8-bit, 2 for
// 16-bit. Meaningless for FormatRGB565, which packs three channels into a
// single 2-byte pixel handled separately by writePixel.
func (rgb *RGB) channelBytes() int {
	if rgb.depthOrDefault() == 16 {
		return 2
	}
	return 1
}

// BytesPerPixel returns the interleaved pixel size in bytes for rgb's format
// and depth.
func (rgb *RGB) BytesPerPixel() int {
	if rgb.Format == FormatRGB565 {
		return 2
	}
	return rgb.Format.Channels() * rgb.channelBytes()
}

// readChannel reads the integer code of the channel at chanOff (in channel
// units) for pixel px within row.
func (rgb *RGB) readChannel(row []byte, px, chanOff int) int {
	cb := rgb.channelBytes()
	base := px*rgb.BytesPerPixel() + chanOff*cb
	if cb == 1 {
		return int(row[base])
	}
	return int(row[base]) | int(row[base+1])<<8
}

// writeChannel writes an integer code to the channel at chanOff (in channel
// units) for pixel px within row.
func (rgb *RGB) writeChannel(row []byte, px, chanOff, code int) {
	cb := rgb.channelBytes()
	base := px*rgb.BytesPerPixel() + chanOff*cb
	row[base] = byte(code)
	if cb == 2 {
		row[base+1] = byte(code >> 8)
	}
}

// outTables holds the requantization table(s) used to convert a normalized
// [0,1] float channel value back to an integer code for one RGB output.
// Rgb565 packs unequal channel widths (5/6/5 bits) so it needs three
// distinct tables; every other format shares one full-range table across
// R, G, B and A, reusing UnormTable.FromFloat the same way chroma planes
// reuse it on the way in.
type outTables struct {
	full       *UnormTable
	r5, g6, b5 *UnormTable
}

func newOutTables(rgb *RGB) *outTables {
	if rgb.Format == FormatRGB565 {
		return &outTables{
			r5: NewUnormTable(5, true, false),
			g6: NewUnormTable(6, true, false),
			b5: NewUnormTable(5, true, false),
		}
	}
	return &outTables{full: NewUnormTable(rgb.depthOrDefault(), true, false)}
}

// writePixel requantizes r, g, b (and a, when the format carries alpha)
// from normalized floats and writes them into out.Pixels at the given
// byte offset, honoring out.Format's channel order and out.Depth's channel
// width.
func writePixel(out *RGB, byteOff int, t *outTables, r, g, b, a float64, writeAlpha bool) {
	if out.Format == FormatRGB565 {
		v := uint16(t.r5.FromFloat(r))<<11 | uint16(t.g6.FromFloat(g))<<5 | uint16(t.b5.FromFloat(b))
		out.Pixels[byteOff] = byte(v)
		out.Pixels[byteOff+1] = byte(v >> 8)
		return
	}

	bytesPerChannel := out.channelBytes()
	rOff, gOff, bOff, aOff := out.Format.offsets()
	put := func(chanOff int, f float64) {
		code := t.full.FromFloat(f)
		base := byteOff + chanOff*bytesPerChannel
		out.Pixels[base] = byte(code)
		if bytesPerChannel == 2 {
			out.Pixels[base+1] = byte(code >> 8)
		}
	}
	put(rOff, r)
	put(gOff, g)
	put(bOff, b)
	if aOff >= 0 && writeAlpha {
		put(aOff, a)
	}
}

// Options configures a single ToRGB call.
type Options struct {
	Mode         Mode
	Coefficients Coefficients
	Upsampling   Upsampling
	// IgnoreAlpha, when true, skips writing an alpha channel even if out
	// has four channels (used for opaque images, spec.md's set_opaque).
	IgnoreAlpha bool
}

// ToRGB runs the generic per-pixel YUV -> RGB core: unorm lookup, chroma
// upsampling, matrix inverse, clamp, and requantize to out's format and
// depth (spec.md's reformatting core, minus any codec-provided fast path).
func ToRGB(img *Image, out *RGB, opts Options) error {
	if out.Width != img.Width || out.Height != img.Height {
		return averr.New(averr.ColorAlphaSizeMismatch)
	}
	if opts.Upsampling == UpsamplingBilinear && img.ChromaSamplePosition != ChromaCenter {
		return averr.Newf(averr.ReformatFailed, "bilinear chroma upsampling requires ChromaCenter sample position")
	}

	yTable := NewUnormTable(img.Depth, img.FullRange, false)
	// Identity mode carries literal G/B/R samples in the Y/U/V planes, not
	// centered chroma, so it shares luma's unorm table instead of chroma's.
	cTable := yTable
	if opts.Mode != ModeIdentity {
		cTable = NewUnormTable(img.Depth, img.FullRange, true)
	}

	bpp := out.BytesPerPixel()
	tables := newOutTables(out)
	writeAlpha := out.Format.HasAlpha() && !opts.IgnoreAlpha

	for py := 0; py < img.Height; py++ {
		rowOff := py * out.Stride
		for px := 0; px < img.Width; px++ {
			yCode := img.Y.At(px, py)
			yf := yTable.ToFloat(yCode)

			var uf, vf float64
			if !img.MonoChrome {
				uf, vf = sampleChroma(img, cTable, px, py, opts.Upsampling)
			}

			r, g, b := invert(opts.Mode, opts.Coefficients, yf, uf, vf, img.MonoChrome)
			writePixel(out, rowOff+px*bpp, tables, r, g, b, 1.0, writeAlpha)
		}
	}
	return nil
}

// sampleChroma reads (or interpolates) the chroma pair for luma coordinate
// (px, py), choosing nearest or bilinear per opts.Upsampling.
func sampleChroma(img *Image, cTable *UnormTable, px, py int, up Upsampling) (uf, vf float64) {
	cx, cy := px, py
	if img.ChromaSubsamplingX {
		cx = px / 2
	}
	if img.ChromaSubsamplingY {
		cy = py / 2
	}

	if up == UpsamplingNearest || (!img.ChromaSubsamplingX && !img.ChromaSubsamplingY) {
		return cTable.ToFloat(img.U.At(cx, cy)), cTable.ToFloat(img.V.At(cx, cy))
	}

	// Bilinear upsampling for ChromaCenter siting: the chroma sample at
	// (cx, cy) sits at the center of the 2x2 (or 2x1/1x2) luma block it
	// covers, so neighbor selection branches on luma parity within the
	// block to pick the correct interpolation direction: even positions
	// pair with the previous chroma sample, odd ones with the next (At
	// clamps the partner to the sample itself at the plane edges).
	dx := 0
	if img.ChromaSubsamplingX {
		dx = 1
		if px%2 == 0 {
			dx = -1
		}
	}
	dy := 0
	if img.ChromaSubsamplingY {
		dy = 1
		if py%2 == 0 {
			dy = -1
		}
	}

	nx, ny := cx+dx, cy+dy
	u00 := cTable.ToFloat(img.U.At(cx, cy))
	v00 := cTable.ToFloat(img.V.At(cx, cy))

	switch {
	case dx != 0 && dy != 0:
		u10 := cTable.ToFloat(img.U.At(nx, cy))
		u01 := cTable.ToFloat(img.U.At(cx, ny))
		u11 := cTable.ToFloat(img.U.At(nx, ny))
		v10 := cTable.ToFloat(img.V.At(nx, cy))
		v01 := cTable.ToFloat(img.V.At(cx, ny))
		v11 := cTable.ToFloat(img.V.At(nx, ny))
		uf = (9*u00 + 3*u10 + 3*u01 + 1*u11) / 16
		vf = (9*v00 + 3*v10 + 3*v01 + 1*v11) / 16
	case dx != 0:
		u10 := cTable.ToFloat(img.U.At(nx, cy))
		v10 := cTable.ToFloat(img.V.At(nx, cy))
		uf = (3*u00 + 1*u10) / 4
		vf = (3*v00 + 1*v10) / 4
	case dy != 0:
		u01 := cTable.ToFloat(img.U.At(cx, ny))
		v01 := cTable.ToFloat(img.V.At(cx, ny))
		uf = (3*u00 + 1*u01) / 4
		vf = (3*v00 + 1*v01) / 4
	default:
		uf, vf = u00, v00
	}
	return uf, vf
}

// invert applies the resolved matrix-coefficient mode to produce floating
// point R, G, B (values outside [0,1] are clamped when UnormTable.FromFloat
// requantizes them).
func invert(mode Mode, c Coefficients, yf, uf, vf float64, monoChrome bool) (r, g, b float64) {
	if monoChrome {
		return yf, yf, yf
	}
	switch mode {
	case ModeIdentity:
		// Identity: plane order is (V, Y, U) carrying (R, G, B).
		return vf, yf, uf
	case ModeYCgCo:
		cg := uf
		co := vf
		t := yf - cg
		return t + co, yf + cg, t - co
	default: // ModeYuvCoefficients
		kr, kb := c.Kr, c.Kb
		kg := 1 - kr - kb
		r = yf + 2*(1-kr)*vf
		b = yf + 2*(1-kb)*uf
		g = (yf - kr*r - kb*b) / kg
		return r, g, b
	}
}
