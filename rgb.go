package avif

import "github.com/vegidio/goavif/internal/reformat"

// PixelFormat selects the interleaved channel layout of a reformatted
// RGBImage (spec.md §6).
type PixelFormat int

const (
	FormatRGB PixelFormat = iota
	FormatBGR
	FormatRGBA
	FormatARGB
	FormatBGRA
	FormatABGR
	FormatRGB565
)

func (f PixelFormat) internal() reformat.PixelFormat {
	return reformat.PixelFormat(f)
}

// HasAlpha reports whether f stores an alpha channel.
func (f PixelFormat) HasAlpha() bool {
	return f.internal().HasAlpha()
}

// String returns the format's lowercase name (e.g. "rgba", "rgb565").
func (f PixelFormat) String() string {
	return f.internal().String()
}

// RGBImage is an interleaved RGB raster in one of the spec.md §6 pixel
// formats, at 8 or 16 bits per channel: the output of Image.Reformat.
type RGBImage struct {
	Width, Height int
	// Format selects the channel layout (Rgb, Bgr, Rgba, Argb, Bgra, Abgr,
	// Rgb565).
	Format PixelFormat
	// Depth is 8 or 16 bits per channel; ignored for Rgb565, which always
	// packs into 2 bytes per pixel.
	Depth int
	// Stride is the number of bytes per row; it is always Width*BytesPerPixel
	// for images produced by this package, but is carried explicitly since
	// it is the shape reformat.RGB expects.
	Stride int
	Pixels []byte
}

// BytesPerPixel returns the interleaved pixel size in bytes for the image's
// format and depth.
func (rgb *RGBImage) BytesPerPixel() int {
	return (&reformat.RGB{Format: rgb.Format.internal(), Depth: rgb.Depth}).BytesPerPixel()
}

// newRGBImage allocates a zeroed RGBImage of the given dimensions, format
// and depth.
func newRGBImage(width, height int, format PixelFormat, depth int) *RGBImage {
	out := &RGBImage{Width: width, Height: height, Format: format, Depth: depth}
	stride := width * out.BytesPerPixel()
	out.Stride = stride
	out.Pixels = make([]byte, stride*height)
	return out
}
