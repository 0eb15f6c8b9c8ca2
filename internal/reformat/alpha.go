package reformat

// SetOpaque fills the alpha channel of an alpha-carrying RGB buffer with its
// maximum code, used when an image has no alpha auxiliary item. No-op for
// formats without a stored alpha channel (Rgb, Bgr, Rgb565).
func SetOpaque(out *RGB) {
	if !out.Format.HasAlpha() {
		return
	}
	_, _, _, aOff := out.Format.offsets()
	maxCode := maxForDepth(out.depthOrDefault())
	bpp := out.BytesPerPixel()
	for py := 0; py < out.Height; py++ {
		row := out.Pixels[py*out.Stride : py*out.Stride+out.Width*bpp]
		for px := 0; px < out.Width; px++ {
			out.writeChannel(row, px, aOff, maxCode)
		}
	}
}

// ImportAlphaFromPlane writes alpha's single plane (at alphaDepth) into
// out's alpha channel at out's own depth, rescaling with a round-half-up
// requantization when the depths differ. No-op for formats without a
// stored alpha channel.
func ImportAlphaFromPlane(out *RGB, alpha *Plane, alphaDepth int) {
	if !out.Format.HasAlpha() {
		return
	}
	_, _, _, aOff := out.Format.offsets()
	maxIn := float64(maxForDepth(alphaDepth))
	maxOut := maxForDepth(out.depthOrDefault())
	bpp := out.BytesPerPixel()
	for py := 0; py < out.Height; py++ {
		row := out.Pixels[py*out.Stride : py*out.Stride+out.Width*bpp]
		for px := 0; px < out.Width; px++ {
			v := alpha.At(px, py)
			out.writeChannel(row, px, aOff, rescale(v, maxIn, maxOut))
		}
	}
}

// rescale maps a code in [0, maxIn] to its nearest equivalent in [0, maxOut]
// using round-half-up truncation.
func rescale(v int, maxIn float64, maxOut int) int {
	f := float64(v) / maxIn * float64(maxOut)
	r := int(f + 0.5)
	if r < 0 {
		return 0
	}
	if r > maxOut {
		return maxOut
	}
	return r
}

// AlphaToFullRange rewrites a limited-range alpha plane's codes in place to
// their full-range equivalents, per spec.md: alpha is always treated as
// full range regardless of the color image's declared range.
func AlphaToFullRange(p *Plane, depth int) {
	table := NewUnormTable(depth, false, false)
	full := NewUnormTable(depth, true, false)
	for i, v := range p.Samples {
		p.Samples[i] = full.FromFloat(table.ToFloat(v))
	}
}

// Premultiply scales each RGB channel by the pixel's alpha value in place
// (straight -> premultiplied alpha). No-op for formats without a stored
// alpha channel.
func Premultiply(out *RGB) {
	if !out.Format.HasAlpha() {
		return
	}
	rOff, gOff, bOff, aOff := out.Format.offsets()
	maxCode := float64(maxForDepth(out.depthOrDefault()))
	bpp := out.BytesPerPixel()
	for py := 0; py < out.Height; py++ {
		row := out.Pixels[py*out.Stride : py*out.Stride+out.Width*bpp]
		for px := 0; px < out.Width; px++ {
			a := float64(out.readChannel(row, px, aOff)) / maxCode
			for _, off := range [3]int{rOff, gOff, bOff} {
				v := float64(out.readChannel(row, px, off)) * a
				out.writeChannel(row, px, off, int(v+0.5))
			}
		}
	}
}

// Unmultiply reverses Premultiply: divides each RGB channel by the pixel's
// alpha value in place (premultiplied -> straight alpha). Fully transparent
// pixels (alpha == 0) are left untouched, since the original straight-alpha
// color cannot be recovered. No-op for formats without a stored alpha
// channel.
func Unmultiply(out *RGB) {
	if !out.Format.HasAlpha() {
		return
	}
	rOff, gOff, bOff, aOff := out.Format.offsets()
	maxCode := maxForDepth(out.depthOrDefault())
	bpp := out.BytesPerPixel()
	for py := 0; py < out.Height; py++ {
		row := out.Pixels[py*out.Stride : py*out.Stride+out.Width*bpp]
		for px := 0; px < out.Width; px++ {
			a := out.readChannel(row, px, aOff)
			if a == 0 {
				continue
			}
			scale := float64(maxCode) / float64(a)
			for _, off := range [3]int{rOff, gOff, bOff} {
				v := float64(out.readChannel(row, px, off)) * scale
				out.writeChannel(row, px, off, clampCode(v, maxCode))
			}
		}
	}
}

func clampCode(f float64, maxCode int) int {
	v := int(f + 0.5)
	if v < 0 {
		return 0
	}
	if v > maxCode {
		return maxCode
	}
	return v
}
