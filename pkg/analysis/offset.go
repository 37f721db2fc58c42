package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ivsweep/internal/consts"
	"ivsweep/pkg/sweep"
)

// removeVoltageOffset estimates the constant voltage offset from samples
// near zero current and subtracts it from V in place. It returns the
// removed offset and a noise band (three standard deviations of the
// samples the estimate came from).
//
// Outliers are dropped in two z-score passes; a pass that would empty
// the subset is skipped so the estimate never degenerates to NaN.
func removeVoltageOffset(I, V []float64) (offset, noise float64, err error) {
	var subset []float64
	for n := range I {
		if math.Abs(I[n]) < consts.OffsetCurrentWindow {
			subset = append(subset, V[n])
		}
	}
	if len(subset) == 0 {
		if len(I) < consts.OffsetFallbackCount {
			return 0, 0, fmt.Errorf("%w: %d samples, need %d for the offset fallback",
				sweep.ErrDataInsufficient, len(I), consts.OffsetFallbackCount)
		}
		idx := make([]int, len(I))
		for n := range idx {
			idx[n] = n
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return math.Abs(I[idx[a]]) < math.Abs(I[idx[b]])
		})
		for _, n := range idx[:consts.OffsetFallbackCount] {
			subset = append(subset, V[n])
		}
	}

	subset = dropOutliers(subset, 1)
	if len(subset) > 1 {
		subset = dropOutliers(subset, 2)
	}

	mean, sd := stat.MeanStdDev(subset, nil)
	if len(subset) < 2 {
		sd = 0
	}
	offset = mean
	noise = 3 * sd
	if math.Abs(offset) < consts.OffsetVoltageFloor {
		offset = 0
	}
	for n := range V {
		V[n] -= offset
	}
	return offset, noise, nil
}

// dropOutliers removes samples more than z standard deviations from the
// mean, keeping the input untouched when the filter would leave nothing.
func dropOutliers(x []float64, z float64) []float64 {
	if len(x) < 2 {
		return x
	}
	mean, sd := stat.MeanStdDev(x, nil)
	if sd == 0 {
		return x
	}
	kept := x[:0:0]
	for _, v := range x {
		if math.Abs(v-mean)/sd < z {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return x
	}
	return kept
}

// correctVoltageSign flips the whole voltage sequence when the wiring
// polarity is reversed, i.e. when voltage runs against current on either
// branch. A second call sees matching signs and does nothing.
func correctVoltageSign(I, V []float64) bool {
	var posSum, negSum float64
	var posN, negN int
	for n := range I {
		switch {
		case I[n] > 0:
			posSum += V[n]
			posN++
		case I[n] < 0:
			negSum += V[n]
			negN++
		}
	}
	flip := (posN > 0 && posSum/float64(posN) < 0) ||
		(negN > 0 && negSum/float64(negN) > 0)
	if flip {
		for n := range V {
			V[n] = -V[n]
		}
	}
	return flip
}
