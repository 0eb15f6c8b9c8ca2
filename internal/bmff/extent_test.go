package bmff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxExtentSingleExtent(t *testing.T) {
	it := &Item{Extents: []Extent{{Offset: 1000, Size: 500}}}

	ext, err := MaxExtent(it, Sample{Offset: 100, Size: 50})
	require.NoError(t, err)
	require.Len(t, ext, 1)
	assert.Equal(t, uint64(1100), ext[0].Offset)
	assert.Equal(t, uint64(50), ext[0].Size)
}

func TestMaxExtentClipsToAvailable(t *testing.T) {
	it := &Item{Extents: []Extent{{Offset: 0, Size: 100}}}

	ext, err := MaxExtent(it, Sample{Offset: 90, Size: 50})
	require.NoError(t, err)
	require.Len(t, ext, 1)
	assert.Equal(t, uint64(10), ext[0].Size)
}

func TestMaxExtentInlineIdatIsZeroExtent(t *testing.T) {
	it := &Item{Idat: []byte{1, 2, 3}}
	ext, err := MaxExtent(it, Sample{Offset: 0, Size: 3})
	require.NoError(t, err)
	require.Len(t, ext, 1)
	assert.Equal(t, Extent{}, ext[0])
}

func TestMaxExtentZeroSizeFails(t *testing.T) {
	it := &Item{Extents: []Extent{{Offset: 0, Size: 10}}}
	_, err := MaxExtent(it, Sample{Offset: 0, Size: 0})
	require.Error(t, err)
}

func TestMaxExtentMultiExtentWalk(t *testing.T) {
	it := &Item{Extents: []Extent{
		{Offset: 0, Size: 10},
		{Offset: 1000, Size: 10},
		{Offset: 2000, Size: 10},
	}}

	// sample spans the tail of extent 1 and all of extent 2
	ext, err := MaxExtent(it, Sample{Offset: 5, Size: 15})
	require.NoError(t, err)
	require.Len(t, ext, 2)
	assert.Equal(t, Extent{Offset: 5, Size: 5}, ext[0])
	assert.Equal(t, Extent{Offset: 1000, Size: 10}, ext[1])
}

func TestMaxExtentOutOfRangeFails(t *testing.T) {
	it := &Item{Extents: []Extent{{Offset: 0, Size: 10}}}
	_, err := MaxExtent(it, Sample{Offset: 20, Size: 5})
	require.Error(t, err)
}
