package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vegidio/goavif/internal/averr"
)

func TestVerifyExifHeaderAcceptsBigEndianAtZero(t *testing.T) {
	payload := append(u32be(0), 0x4D, 0x4D, 0x00, 0x2A, 0xDE, 0xAD)
	require.NoError(t, VerifyExifHeader(payload))
}

func TestVerifyExifHeaderAcceptsLittleEndianWithPadding(t *testing.T) {
	// 4 bytes of padding before "II*\x00", so the real offset is 4.
	payload := append(u32be(4), 0, 0, 0, 0, 0x49, 0x49, 0x2A, 0x00)
	require.NoError(t, VerifyExifHeader(payload))
}

func TestVerifyExifHeaderRejectsMismatchedOffset(t *testing.T) {
	payload := append(u32be(4), 0x4D, 0x4D, 0x00, 0x2A) // header is actually at 0, not 4
	err := VerifyExifHeader(payload)
	require.Error(t, err)
	assert.True(t, averr.Is(err, averr.InvalidExifPayload))
}

func TestVerifyExifHeaderRejectsMissingTiffMarker(t *testing.T) {
	payload := append(u32be(0), 0x00, 0x00, 0x00, 0x00)
	err := VerifyExifHeader(payload)
	require.Error(t, err)
	assert.True(t, averr.Is(err, averr.InvalidExifPayload))
}

func TestVerifyExifHeaderRejectsTruncatedOffsetField(t *testing.T) {
	err := VerifyExifHeader([]byte{0x00, 0x00})
	require.Error(t, err)
	assert.True(t, averr.Is(err, averr.InvalidExifPayload))
}
