package avif

import "github.com/vegidio/goavif/codec"

// Image is one decoded AVIF image: the primary color planes plus whatever
// auxiliary content the container carried alongside it (alpha, gain map,
// Exif, XMP).
type Image struct {
	Width, Height int
	Depth         int

	Color *codec.Image
	// Alpha is non-nil only when the item table resolved an alpha
	// auxiliary image for the primary item.
	Alpha *codec.Image
	// GainMap is non-nil only when the container carried an HDR gain-map
	// auxiliary image (a "tmap" item) and it was decoded.
	GainMap *Image

	// ClliMaxCLL/ClliMaxPALL carry the "clli" property when present; both
	// are zero when absent.
	ClliMaxCLL, ClliMaxPALL uint16

	Exif []byte
	XMP  []byte
}

// Reformat converts Color (and Alpha, if present) to an interleaved RGB(A)
// raster, per the matrix-coefficient and chroma-upsampling rules in
// internal/reformat.
func (img *Image) Reformat(matrixCoefficients, colorPrimaries int, fullRange bool, opts ReformatOptions) (*RGBImage, error) {
	return reformatImage(img, matrixCoefficients, colorPrimaries, fullRange, opts)
}
