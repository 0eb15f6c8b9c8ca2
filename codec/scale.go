package codec

// Scaler is an embedder capability for resizing a decoded Image. No goavif
// code path calls it: Image.Reformat always uses the nearest/bilinear
// chroma upsampling of internal/reformat.
type Scaler interface {
	Scale(img *Image, width, height int) error
}

// FastReformatter is an embedder capability that reformats a YUV Image
// directly to interleaved RGB(A); a false, nil result signals "not
// handled". No goavif code path calls it: Image.Reformat always runs the
// built-in identity fast path or the generic per-pixel core.
type FastReformatter interface {
	ReformatFast(img *Image, rgb []byte, stride int, alpha []byte) (handled bool, err error)
}
