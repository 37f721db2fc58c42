package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ivsweep/internal/consts"
)

// classify decides the curve type from the corrected sweep and the
// nominal gap voltage. It is a pure function of its inputs and always
// resolves to a concrete type, breaking ties toward the simpler class:
// matching low- and high-bias slopes mean a resistor; otherwise the
// largest voltage step between current-adjacent samples separates
// arrays, hysteretic junctions and overdamped junctions.
func classify(I, V []float64, vg float64) CurveType {
	k := len(I) / 4
	if k > consts.ClassifyTailPoints {
		k = consts.ClassifyTailPoints
	}
	if k < 2 {
		k = 2
	}

	idx := make([]int, len(I))
	for n := range idx {
		idx[n] = n
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(I[idx[a]]) < math.Abs(I[idx[b]])
	})

	slopeLow := tailSlope(I, V, idx[:k], true)
	slopeHigh := tailSlope(I, V, idx[len(idx)-k:], false)

	limit := consts.SlopeMatchTolerance * math.Max(math.Abs(slopeLow), math.Abs(slopeHigh))
	if math.Abs(slopeLow-slopeHigh) < limit {
		return Resistor
	}

	jump := maxVoltageStep(I, V)
	switch {
	case jump > consts.ArrayHysteresisFactor*vg:
		return JunctionArray
	case jump > consts.HysteresisFraction*vg:
		return HystereticJunction
	default:
		return OverdampedJunction
	}
}

// tailSlope fits V against I over the selected samples. A low-bias fit
// that barely correlates (supercurrent branch, pure noise) counts as
// zero slope so a junction is not mistaken for a resistor.
func tailSlope(I, V []float64, idx []int, lowBias bool) float64 {
	x := make([]float64, len(idx))
	y := make([]float64, len(idx))
	for n, m := range idx {
		x[n] = I[m]
		y[n] = V[m]
	}
	_, slope := stat.LinearRegression(x, y, nil, false)
	if lowBias {
		r := stat.Correlation(x, y, nil)
		if math.IsNaN(r) || r < consts.LowBiasCorrMin {
			return 0
		}
	}
	if math.IsNaN(slope) {
		return 0
	}
	return slope
}

// maxVoltageStep returns the largest |dV| between samples adjacent in
// current order. Hysteresis shows up here as a step near V_g (or near
// N*V_g for an array) between the switching and retrapping branches.
func maxVoltageStep(I, V []float64) float64 {
	idx := make([]int, len(I))
	for n := range idx {
		idx[n] = n
	}
	sort.SliceStable(idx, func(a, b int) bool { return I[idx[a]] < I[idx[b]] })

	var jump float64
	for n := 1; n < len(idx); n++ {
		d := math.Abs(V[idx[n]] - V[idx[n-1]])
		if d > jump {
			jump = d
		}
	}
	return jump
}
