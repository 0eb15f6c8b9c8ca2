package avif

import (
	"github.com/vegidio/goavif/codec"
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/reformat"
)

func reformatImage(img *Image, matrixCoefficients, colorPrimaries int, fullRange bool, opts ReformatOptions) (*RGBImage, error) {
	if img.Color == nil {
		return nil, averr.New(averr.MissingImageItem)
	}

	mode, coeffs, err := reformat.ResolveMode(
		reformat.MatrixCoefficients(matrixCoefficients),
		reformat.ColorPrimaries(colorPrimaries),
	)
	if err != nil {
		return nil, err
	}

	src := toReformatImage(img.Color, fullRange)

	out := newRGBImage(img.Color.Width, img.Color.Height, opts.Format, opts.depth())
	rgbOut := &reformat.RGB{
		Width: out.Width, Height: out.Height,
		Stride: out.Stride, Format: out.Format.internal(), Depth: out.Depth,
		Pixels: out.Pixels,
	}

	up := reformat.UpsamplingNearest
	if opts.Bilinear {
		up = reformat.UpsamplingBilinear
	}

	handled := false
	if mode == reformat.ModeIdentity && !opts.Bilinear {
		handled = reformat.TryIdentityFastPath(src, rgbOut, img.Alpha == nil)
	}
	if !handled {
		if err := reformat.ToRGB(src, rgbOut, reformat.Options{
			Mode: mode, Coefficients: coeffs, Upsampling: up, IgnoreAlpha: img.Alpha == nil,
		}); err != nil {
			return nil, err
		}
	}

	switch {
	case img.Alpha != nil:
		alphaPlane := planeFromCodec(img.Alpha, codec.PlaneY)
		reformat.ImportAlphaFromPlane(rgbOut, alphaPlane, img.Alpha.Depth)
	case out.Format.HasAlpha():
		reformat.SetOpaque(rgbOut)
	}

	if opts.Premultiply && out.Format.HasAlpha() {
		reformat.Premultiply(rgbOut)
	}

	return out, nil
}

func toReformatImage(src *codec.Image, fullRange bool) *reformat.Image {
	img := &reformat.Image{
		Width: src.Width, Height: src.Height,
		Depth:                src.Depth,
		FullRange:            fullRange,
		MonoChrome:           src.MonoChrome,
		ChromaSamplePosition: reformat.ChromaCenter,
		ChromaSubsamplingX:   src.ChromaSubsamplingX,
		ChromaSubsamplingY:   src.ChromaSubsamplingY,
		Y:                    planeFromCodec(src, codec.PlaneY),
	}
	if !src.MonoChrome {
		img.U = planeFromCodec(src, codec.PlaneU)
		img.V = planeFromCodec(src, codec.PlaneV)
	}
	return img
}

// planeFromCodec unpacks a codec.Image plane's wire bytes into plain
// integer samples, at the plane's actual (possibly subsampled) dimensions.
func planeFromCodec(src *codec.Image, plane codec.Plane) *reformat.Plane {
	width, height := src.Width, src.Height
	if plane != codec.PlaneY {
		if src.ChromaSubsamplingX {
			width = (width + 1) / 2
		}
		if src.ChromaSubsamplingY {
			height = (height + 1) / 2
		}
	}

	raw := src.Planes[plane]
	stride := src.Strides[plane]
	samples := make([]int, width*height)

	if src.Depth == 8 {
		for y := 0; y < height; y++ {
			row := raw[y*stride : y*stride+width]
			for x := 0; x < width; x++ {
				samples[y*width+x] = int(row[x])
			}
		}
	} else {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := y*stride + x*2
				samples[y*width+x] = int(raw[i]) | int(raw[i+1])<<8
			}
		}
	}

	return &reformat.Plane{Width: width, Height: height, Stride: width, Samples: samples}
}
