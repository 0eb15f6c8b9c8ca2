package averr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIs(t *testing.T) {
	err := New(BmffParseFailed)
	assert.True(t, Is(err, BmffParseFailed))
	assert.False(t, Is(err, TruncatedData))
}

func TestNewfFormatsDetail(t *testing.T) {
	err := Newf(TruncatedData, "missing %d bytes", 4)
	assert.Equal(t, "truncated_data: missing 4 bytes", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk read failed")
	err := Wrap(IoError, cause, "reading extent")
	require.Error(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, Is(err, IoError))
}

func TestIsWalksWrappedChain(t *testing.T) {
	inner := New(InvalidImageGrid)
	outer := Wrap(BmffParseFailed, inner, "grid coherence")
	assert.True(t, Is(outer, BmffParseFailed))
}
