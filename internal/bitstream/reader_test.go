package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0xAA, 0xBB, 0xCC, 0xDD})
	v8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v8)

	v16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), v32)
}

func TestReaderU24(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x01})
	v, err := r.U24()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
}

func TestReaderUintNVariableWidth(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	v, err := r.UintN(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x01020304), v)
}

func TestReaderUintNZeroWidthReturnsZero(t *testing.T) {
	r := NewReader([]byte{0xFF})
	v, err := r.UintN(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.Equal(t, 1, r.Len()) // no bytes consumed
}

func TestReaderTruncatedReadsFail(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.U32()
	require.Error(t, err)
}

func TestReaderCString(t *testing.T) {
	r := NewReader([]byte{'h', 'i', 0, 'x'})
	s, err := r.CString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, 1, r.Len())
}

func TestReaderCStringUnterminatedFails(t *testing.T) {
	r := NewReader([]byte{'h', 'i'})
	_, err := r.CString()
	require.Error(t, err)
}

func TestReaderFourCC(t *testing.T) {
	r := NewReader([]byte("av01"))
	s, err := r.FourCC()
	require.NoError(t, err)
	assert.Equal(t, "av01", s)
}

func TestReaderPeekBytesDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	b, err := r.PeekBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)
	assert.Equal(t, 0, r.Pos())
}
