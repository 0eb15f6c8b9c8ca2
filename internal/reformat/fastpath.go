package reformat

// TryIdentityFastPath implements the Identity fast path: an 8-bit, 4:4:4,
// full-range image with matrix_coefficients == Identity reformats to an
// 8-bit-per-channel byte-order RGB(A) output by direct byte shuffle
// (R <- V, G <- Y, B <- U), skipping the unorm/float pipeline entirely. It
// returns false when img or out does not meet every precondition (including
// 16-bit output and the packed Rgb565 format, which need real
// requantization), so the caller falls back to the generic ToRGB path.
func TryIdentityFastPath(img *Image, out *RGB, ignoreAlpha bool) bool {
	if img.Depth != 8 || img.MonoChrome {
		return false
	}
	if img.ChromaSubsamplingX || img.ChromaSubsamplingY {
		return false
	}
	if !img.FullRange {
		return false
	}
	if out.depthOrDefault() == 16 || out.Format == FormatRGB565 {
		return false
	}

	bpp := out.Format.Channels()
	rOff, gOff, bOff, aOff := out.Format.offsets()
	writeAlpha := aOff >= 0 && !ignoreAlpha

	for py := 0; py < img.Height; py++ {
		row := out.Pixels[py*out.Stride : py*out.Stride+img.Width*bpp]
		yRow := img.Y.Samples[py*img.Y.Stride : py*img.Y.Stride+img.Width]
		uRow := img.U.Samples[py*img.U.Stride : py*img.U.Stride+img.Width]
		vRow := img.V.Samples[py*img.V.Stride : py*img.V.Stride+img.Width]
		for px := 0; px < img.Width; px++ {
			off := px * bpp
			row[off+rOff] = byte(vRow[px])
			row[off+gOff] = byte(yRow[px])
			row[off+bOff] = byte(uRow[px])
			if writeAlpha {
				row[off+aOff] = 0xFF
			}
		}
	}
	return true
}
