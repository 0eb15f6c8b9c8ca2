package reformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOpaque(t *testing.T) {
	out := &RGB{Width: 1, Height: 1, Stride: 4, Format: FormatRGBA, Pixels: make([]byte, 4)}
	SetOpaque(out)
	assert.Equal(t, byte(0xFF), out.Pixels[3])
}

func TestImportAlphaFromPlaneRescales10To8(t *testing.T) {
	out := &RGB{Width: 1, Height: 1, Stride: 4, Format: FormatRGBA, Pixels: make([]byte, 4)}
	alpha := solidPlane(1, 1, 1023)
	ImportAlphaFromPlane(out, alpha, 10)
	assert.Equal(t, byte(255), out.Pixels[3])
}

func TestPremultiplyThenUnmultiplyRoundTrips(t *testing.T) {
	out := &RGB{Width: 1, Height: 1, Stride: 4, Format: FormatRGBA, Pixels: []byte{200, 100, 50, 128}}
	Premultiply(out)
	Unmultiply(out)
	assert.InDelta(t, 200, int(out.Pixels[0]), 3)
	assert.InDelta(t, 100, int(out.Pixels[1]), 3)
	assert.InDelta(t, 50, int(out.Pixels[2]), 3)
}

func TestUnmultiplyZeroAlphaLeavesZero(t *testing.T) {
	out := &RGB{Width: 1, Height: 1, Stride: 4, Format: FormatRGBA, Pixels: []byte{0, 0, 0, 0}}
	Unmultiply(out)
	assert.Equal(t, []byte{0, 0, 0, 0}, out.Pixels)
}
