// Package reformat implements the YUV-to-RGB reformatting core: matrix
// coefficient resolution, unorm lookup tables, chroma upsampling, and the
// alpha premultiply/unpremultiply helpers.
package reformat

import "github.com/vegidio/goavif/internal/averr"

// Mode is the resolved pixel transform a reformat pass applies.
type Mode int

const (
	// ModeIdentity maps planes directly to GBR (matrix_coefficients == 0).
	ModeIdentity Mode = iota
	// ModeYCgCo applies the YCgCo inverse transform.
	ModeYCgCo
	// ModeYuvCoefficients applies the general kr/kg/kb matrix inverse.
	ModeYuvCoefficients
)

// MatrixCoefficients mirrors the CICP matrix_coefficients field (ISO/IEC
// 23091-2) values this core understands.
type MatrixCoefficients int

const (
	MatrixIdentity              MatrixCoefficients = 0
	MatrixBt709                 MatrixCoefficients = 1
	MatrixUnspecified           MatrixCoefficients = 2
	MatrixFcc                   MatrixCoefficients = 4
	MatrixBt470bg               MatrixCoefficients = 5
	MatrixBt601                 MatrixCoefficients = 6
	MatrixSmpte240              MatrixCoefficients = 7
	MatrixYCgCo                 MatrixCoefficients = 8
	MatrixBt2020NonConstant     MatrixCoefficients = 9
	MatrixBt2020Constant        MatrixCoefficients = 10
	MatrixSmpte2085             MatrixCoefficients = 11
	MatrixChromaDerivedNonConst MatrixCoefficients = 12
	MatrixChromaDerivedConst    MatrixCoefficients = 13
	MatrixIctcp                 MatrixCoefficients = 14
)

// ColorPrimaries mirrors the CICP colour_primaries field values this core
// needs to resolve the kr/kg/kb matrix for MatrixUnspecified inputs.
type ColorPrimaries int

const (
	PrimariesBt709     ColorPrimaries = 1
	PrimariesUnspecified ColorPrimaries = 2
	PrimariesBt470m    ColorPrimaries = 4
	PrimariesBt470bg   ColorPrimaries = 5
	PrimariesBt601     ColorPrimaries = 6
	PrimariesSmpte240  ColorPrimaries = 7
	PrimariesGenericFilm ColorPrimaries = 8
	PrimariesBt2020    ColorPrimaries = 9
	PrimariesSmpte432  ColorPrimaries = 12
)

// Kr, Kg, Kb are the luma derivation coefficients for a YuvCoefficients mode.
type Kr = float64
type Kg = float64
type Kb = float64

// Coefficients holds the resolved Kr/Kb pair (Kg is derived: 1 - Kr - Kb).
type Coefficients struct {
	Kr, Kb float64
}

// ResolveMode implements spec.md's matrix-coefficient selection: reject the
// matrix coefficients this core does not support, and pick
// Identity / YCgCo / a concrete kr,kg,kb matrix for everything else.
func ResolveMode(mc MatrixCoefficients, primaries ColorPrimaries) (Mode, Coefficients, error) {
	switch mc {
	case MatrixIdentity:
		return ModeIdentity, Coefficients{}, nil
	case MatrixYCgCo:
		return ModeYCgCo, Coefficients{}, nil
	case MatrixBt2020Constant, MatrixSmpte2085, MatrixChromaDerivedConst, MatrixIctcp:
		return 0, Coefficients{}, averr.Newf(averr.ReformatFailed, "unsupported matrix_coefficients %d", mc)
	}

	coeffs, err := coefficientsFor(mc, primaries)
	if err != nil {
		return 0, Coefficients{}, err
	}
	return ModeYuvCoefficients, coeffs, nil
}

// coefficientsFor resolves kr,kb either directly from the matrix coefficient
// table, or (MatrixUnspecified / MatrixChromaDerivedNonConst) by looking
// them up from colour_primaries in coefficientsFromPrimaries, per the
// well-known CICP constants used throughout the AVIF/HEIF ecosystem.
func coefficientsFor(mc MatrixCoefficients, primaries ColorPrimaries) (Coefficients, error) {
	switch mc {
	case MatrixBt709:
		return Coefficients{Kr: 0.2126, Kb: 0.0722}, nil
	case MatrixFcc:
		return Coefficients{Kr: 0.30, Kb: 0.11}, nil
	case MatrixBt470bg, MatrixBt601:
		return Coefficients{Kr: 0.299, Kb: 0.114}, nil
	case MatrixSmpte240:
		return Coefficients{Kr: 0.212, Kb: 0.087}, nil
	case MatrixBt2020NonConstant:
		return Coefficients{Kr: 0.2627, Kb: 0.0593}, nil
	case MatrixUnspecified, MatrixChromaDerivedNonConst:
		return coefficientsFromPrimaries(primaries), nil
	default:
		return Coefficients{}, averr.Newf(averr.ReformatFailed, "unsupported matrix_coefficients %d", mc)
	}
}

// coefficientsFromPrimaries falls back to BT.601 for genuinely unspecified
// or unrecognized primaries, and otherwise matches the primaries' native
// matrix per common practice (e.g. BT.2020 primaries imply BT.2020
// non-constant luminance coefficients).
func coefficientsFromPrimaries(primaries ColorPrimaries) Coefficients {
	switch primaries {
	case PrimariesBt709:
		return Coefficients{Kr: 0.2126, Kb: 0.0722}
	case PrimariesBt2020:
		return Coefficients{Kr: 0.2627, Kb: 0.0593}
	case PrimariesSmpte240:
		return Coefficients{Kr: 0.212, Kb: 0.087}
	default:
		return Coefficients{Kr: 0.299, Kb: 0.114}
	}
}
