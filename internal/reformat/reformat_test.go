package reformat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func solidPlane(w, h, v int) *Plane {
	s := make([]int, w*h)
	for i := range s {
		s[i] = v
	}
	return &Plane{Width: w, Height: h, Stride: w, Samples: s}
}

func TestToRGBIdentityFullRangeWhiteIsWhite(t *testing.T) {
	img := &Image{
		Width: 2, Height: 2, Depth: 8, FullRange: true,
		Y: solidPlane(2, 2, 255), U: solidPlane(2, 2, 255), V: solidPlane(2, 2, 255),
	}
	out := &RGB{Width: 2, Height: 2, Stride: 2 * 3, Format: FormatRGB, Pixels: make([]byte, 2*2*3)}

	err := ToRGB(img, out, Options{Mode: ModeIdentity})
	require.NoError(t, err)
	for i := 0; i < len(out.Pixels); i++ {
		require.Equal(t, byte(255), out.Pixels[i])
	}
}

func TestToRGBYuvCoefficientsGray(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true,
		Y: solidPlane(1, 1, 128), U: solidPlane(1, 1, 128), V: solidPlane(1, 1, 128),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 3, Format: FormatRGB, Pixels: make([]byte, 3)}

	err := ToRGB(img, out, Options{Mode: ModeYuvCoefficients, Coefficients: Coefficients{Kr: 0.2126, Kb: 0.0722}})
	require.NoError(t, err)
	// neutral chroma (centered at 128) should reproduce the luma value as gray
	require.InDelta(t, 128, int(out.Pixels[0]), 2)
	require.InDelta(t, 128, int(out.Pixels[1]), 2)
	require.InDelta(t, 128, int(out.Pixels[2]), 2)
}

func TestToRGBMonoChrome(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true, MonoChrome: true,
		Y: solidPlane(1, 1, 200),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 3, Format: FormatRGB, Pixels: make([]byte, 3)}

	err := ToRGB(img, out, Options{Mode: ModeYuvCoefficients, Coefficients: Coefficients{Kr: 0.2126, Kb: 0.0722}})
	require.NoError(t, err)
	require.Equal(t, out.Pixels[0], out.Pixels[1])
	require.Equal(t, out.Pixels[1], out.Pixels[2])
}

func TestToRGBBilinearRequiresChromaCenter(t *testing.T) {
	img := &Image{
		Width: 2, Height: 2, Depth: 8, FullRange: true,
		ChromaSamplePosition: ChromaVertical,
		ChromaSubsamplingX:   true, ChromaSubsamplingY: true,
		Y: solidPlane(2, 2, 128), U: solidPlane(1, 1, 128), V: solidPlane(1, 1, 128),
	}
	out := &RGB{Width: 2, Height: 2, Stride: 2 * 3, Format: FormatRGB, Pixels: make([]byte, 2*2*3)}

	err := ToRGB(img, out, Options{Mode: ModeYuvCoefficients, Upsampling: UpsamplingBilinear})
	require.Error(t, err)
}

func TestToRGBSizeMismatch(t *testing.T) {
	img := &Image{Width: 2, Height: 2, Depth: 8, FullRange: true, MonoChrome: true, Y: solidPlane(2, 2, 0)}
	out := &RGB{Width: 1, Height: 1, Format: FormatRGB, Pixels: make([]byte, 3)}
	err := ToRGB(img, out, Options{Mode: ModeIdentity})
	require.Error(t, err)
}

func TestToRGBBgrIdentityWhite(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true,
		Y: solidPlane(1, 1, 255), U: solidPlane(1, 1, 255), V: solidPlane(1, 1, 255),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 3, Format: FormatBGR, Pixels: make([]byte, 3)}

	err := ToRGB(img, out, Options{Mode: ModeIdentity})
	require.NoError(t, err)
	// Identity white (Y=U=V=255) is (R,G,B) = (255,255,255), so BGR vs RGB is
	// indistinguishable here; this test only proves the offsets don't panic
	// or misalign on a non-square channel permutation. See TestToRGBArgbAlphaOffset
	// for an order-sensitive check.
	require.Equal(t, []byte{255, 255, 255}, out.Pixels)
}

func TestToRGBArgbAlphaOffset(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true,
		Y: solidPlane(1, 1, 10), U: solidPlane(1, 1, 20), V: solidPlane(1, 1, 30),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 4, Format: FormatARGB, Pixels: make([]byte, 4)}

	err := ToRGB(img, out, Options{Mode: ModeIdentity})
	require.NoError(t, err)
	require.Equal(t, byte(255), out.Pixels[0]) // alpha first in Argb
	require.Equal(t, byte(30), out.Pixels[1])  // R <- V
	require.Equal(t, byte(10), out.Pixels[2])  // G <- Y
	require.Equal(t, byte(20), out.Pixels[3])  // B <- U
}

func TestToRGB565Packs565(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true,
		Y: solidPlane(1, 1, 255), U: solidPlane(1, 1, 255), V: solidPlane(1, 1, 255),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 2, Format: FormatRGB565, Pixels: make([]byte, 2)}

	err := ToRGB(img, out, Options{Mode: ModeIdentity})
	require.NoError(t, err)
	v := uint16(out.Pixels[0]) | uint16(out.Pixels[1])<<8
	require.Equal(t, uint16(0xFFFF), v) // white: all five/six/five bits set
}

func TestToRGB16BitWidensChannels(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 8, FullRange: true,
		Y: solidPlane(1, 1, 255), U: solidPlane(1, 1, 128), V: solidPlane(1, 1, 128),
	}
	out := &RGB{Width: 1, Height: 1, Stride: 6, Format: FormatRGB, Depth: 16, Pixels: make([]byte, 6)}

	err := ToRGB(img, out, Options{Mode: ModeYuvCoefficients, Coefficients: Coefficients{Kr: 0.2126, Kb: 0.0722}})
	require.NoError(t, err)
	r := out.readChannel(out.Pixels, 0, 0)
	require.InDelta(t, 65535, r, 512)
}
