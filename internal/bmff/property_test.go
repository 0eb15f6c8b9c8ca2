package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAV1ConfigMarkerRequired(t *testing.T) {
	r := newTestReader([]byte{0x00, 0x00, 0x00, 0x00})
	_, err := parseAV1Config(r)
	require.Error(t, err)
}

func TestParseAV1ConfigFields(t *testing.T) {
	// seq_profile=1(3bits)=001, seq_level_idx_0=8(5bits)=01000
	b2 := byte(1<<5 | 8)
	// seq_tier_0=0, high_bitdepth=1, twelve_bit=0, monochrome=0, css_x=1, css_y=1, pos=0
	b3 := byte(0<<7 | 1<<6 | 0<<5 | 0<<4 | 1<<3 | 1<<2 | 0)
	b4 := byte(0) // no presentation delay
	marker := byte(1 << 7)

	r := newTestReader([]byte{marker, b2, b3, b4})
	prop, err := parseAV1Config(r)
	require.NoError(t, err)
	require.Equal(t, PropCodecConfiguration, prop.Kind)

	cfg := prop.CodecConfiguration
	assert.Equal(t, uint8(1), cfg.SeqProfile)
	assert.True(t, cfg.HighBitdepth)
	assert.False(t, cfg.TwelveBit)
	assert.Equal(t, 10, cfg.Depth())
	assert.True(t, cfg.ChromaSubsamplingX)
	assert.True(t, cfg.ChromaSubsamplingY)
}

func TestAuxiliaryTypeIsAlpha(t *testing.T) {
	assert.True(t, AuxiliaryType{URN: AuxTypeAlphaMPEG}.IsAlpha())
	assert.True(t, AuxiliaryType{URN: AuxTypeAlphaHEVC}.IsAlpha())
	assert.False(t, AuxiliaryType{URN: "urn:something:else"}.IsAlpha())
}

func TestParseUnknownPropertyIsTaggedUnknown(t *testing.T) {
	prop, err := parseProperty(box{boxType: "irot", payload: []byte{0x01}})
	require.NoError(t, err)
	assert.Equal(t, PropUnknown, prop.Kind)
	assert.Equal(t, "irot", prop.UnknownType)
}

func TestCodecConfigurationEqual(t *testing.T) {
	a := CodecConfiguration{SeqProfile: 1, ChromaSubsamplingX: true}
	b := a
	c := CodecConfiguration{SeqProfile: 2}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
