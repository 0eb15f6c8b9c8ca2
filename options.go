package avif

import "github.com/rs/zerolog"

// Default limits mirror libavif's defaults: a 32-bit-safe total pixel count
// (16384*16384) and a 32768-pixel per-side dimension cap, both overridable
// per Options.
const (
	DefaultSizeLimit      = 16384 * 16384
	DefaultDimensionLimit = 32768
)

// Options configures a Decoder's parsing and sample-selection behavior.
type Options struct {
	// SizeLimit bounds the total pixel count (width * height) of any coded
	// image or grid output. Zero selects DefaultSizeLimit.
	SizeLimit uint64
	// DimensionLimit bounds the width and height of any coded image or grid
	// output independently. Zero selects DefaultDimensionLimit.
	DimensionLimit uint64

	// AllowProgressive is not read by Decoder: intermediate spatial layers
	// of progressive AVIF files are never returned as separate images.
	AllowProgressive bool
	// IgnoreExif skips Exif metadata discovery and extraction.
	IgnoreExif bool
	// IgnoreXMP skips XMP metadata discovery and extraction.
	IgnoreXMP bool

	// Logger, if set, receives a Debug event with the item count and primary
	// item id when Parse succeeds; no other stage logs. A nil Logger
	// disables logging entirely (the default).
	Logger *zerolog.Logger
}

// sizeLimit returns o.SizeLimit or DefaultSizeLimit if unset.
func (o Options) sizeLimit() uint64 {
	if o.SizeLimit == 0 {
		return DefaultSizeLimit
	}
	return o.SizeLimit
}

// dimensionLimit returns o.DimensionLimit or DefaultDimensionLimit if unset.
func (o Options) dimensionLimit() uint64 {
	if o.DimensionLimit == 0 {
		return DefaultDimensionLimit
	}
	return o.DimensionLimit
}

// ReformatOptions configures the YUV-to-RGB reformatting pass.
type ReformatOptions struct {
	// Format selects the output pixel layout (spec.md §6). The zero value
	// is FormatRGB; callers that want an alpha channel must set FormatRGBA
	// (or another alpha-carrying format) explicitly.
	Format PixelFormat
	// Depth selects 8 or 16 bits per channel output. Zero selects 8;
	// ignored when Format is FormatRGB565.
	Depth int
	// Bilinear enables bilinear chroma upsampling instead of nearest.
	// Reformat treats every image's chroma samples as center-sited, so the
	// chroma_sample_position signalled in the container is not checked.
	Bilinear bool
	// Premultiply requests premultiplied alpha in the output buffer.
	Premultiply bool
}

func (o ReformatOptions) depth() int {
	if o.Depth == 0 {
		return 8
	}
	return o.Depth
}
