package reformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModeIdentity(t *testing.T) {
	mode, _, err := ResolveMode(MatrixIdentity, PrimariesBt709)
	require.NoError(t, err)
	assert.Equal(t, ModeIdentity, mode)
}

func TestResolveModeYCgCo(t *testing.T) {
	mode, _, err := ResolveMode(MatrixYCgCo, PrimariesBt709)
	require.NoError(t, err)
	assert.Equal(t, ModeYCgCo, mode)
}

func TestResolveModeBt709Coefficients(t *testing.T) {
	mode, c, err := ResolveMode(MatrixBt709, PrimariesBt709)
	require.NoError(t, err)
	assert.Equal(t, ModeYuvCoefficients, mode)
	assert.InDelta(t, 0.2126, c.Kr, 1e-9)
	assert.InDelta(t, 0.0722, c.Kb, 1e-9)
}

func TestResolveModeRejectsUnsupported(t *testing.T) {
	for _, mc := range []MatrixCoefficients{MatrixBt2020Constant, MatrixSmpte2085, MatrixChromaDerivedConst, MatrixIctcp} {
		_, _, err := ResolveMode(mc, PrimariesBt709)
		require.Error(t, err, "matrix_coefficients=%d", mc)
	}
}

func TestResolveModeUnspecifiedFallsBackToPrimaries(t *testing.T) {
	_, c, err := ResolveMode(MatrixUnspecified, PrimariesBt2020)
	require.NoError(t, err)
	assert.InDelta(t, 0.2627, c.Kr, 1e-9)
}
