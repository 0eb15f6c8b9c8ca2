package reformat

// UnormTable holds the precomputed float-domain lookup used to convert an
// N-bit integer sample to a [0,1] (full range) or studio-swing-normalized
// (limited range) float value before the matrix transform runs, and back
// again when requantizing to the output depth.
type UnormTable struct {
	depth int
	toFloat []float64
	// offset/scale give the formulas used to build toFloat, retained for
	// requantization (float -> nearest integer code at this depth).
	offset, scale float64
}

// maxForDepth returns 2^depth - 1.
func maxForDepth(depth int) int { return (1 << uint(depth)) - 1 }

// NewUnormTable builds the lookup table for one plane kind (luma or chroma)
// at the given bit depth and range, per the libavif-derived formulas:
//
//	full range luma:    v / maxVal                        (center 0)
//	full range chroma:  (v - 2^(depth-1)) / maxVal         (center 2^(depth-1))
//	limited range luma:   (v - 16<<(depth-8)) / (219<<(depth-8))
//	limited range chroma: (v - 128<<(depth-8)) / (224<<(depth-8))
//
// isChroma selects the centered chroma constants; chroma is centered at
// 2^(depth-1) in both full and limited range, only the range denominator
// switches on range (spec.md §4.6; crabbyavif/reformat/rgb_impl.rs bias_uv).
func NewUnormTable(depth int, fullRange bool, isChroma bool) *UnormTable {
	maxVal := float64(maxForDepth(depth))
	t := &UnormTable{depth: depth}

	if fullRange {
		t.scale = maxVal
		if isChroma {
			t.offset = float64(int(1) << uint(depth-1))
		} else {
			t.offset = 0
		}
	} else {
		shift := float64(int(1) << uint(depth-8))
		if isChroma {
			t.offset, t.scale = 128*shift, 224*shift
		} else {
			t.offset, t.scale = 16*shift, 219*shift
		}
	}

	n := maxForDepth(depth) + 1
	t.toFloat = make([]float64, n)
	for v := 0; v < n; v++ {
		t.toFloat[v] = (float64(v) - t.offset) / t.scale
	}
	return t
}

// ToFloat converts an integer code to its normalized float value.
func (t *UnormTable) ToFloat(v int) float64 {
	if v < 0 {
		v = 0
	}
	if v >= len(t.toFloat) {
		v = len(t.toFloat) - 1
	}
	return t.toFloat[v]
}

// FromFloat requantizes a normalized float value back to an integer code at
// this table's depth, using round-half-up and clamping to the valid range.
func (t *UnormTable) FromFloat(f float64) int {
	v := int(f*t.scale + t.offset + 0.5)
	if v < 0 {
		return 0
	}
	if max := maxForDepth(t.depth); v > max {
		return max
	}
	return v
}

// Depth returns the bit depth this table was built for.
func (t *UnormTable) Depth() int { return t.depth }
