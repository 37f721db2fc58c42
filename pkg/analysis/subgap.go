package analysis

import (
	"fmt"
	"math"
	"sort"

	"ivsweep/pkg/sweep"
)

// estimateSubgap computes the subgap resistance V_sg/I(V_sg) for both
// polarities of a hysteretic junction. The current at the subgap bias is
// read off the return legs, which trace the subgap branch: the leg
// falling back from the positive maximum for +V_sg and the leg rising
// back from the negative minimum for -V_sg. When no sample lands exactly
// on the bias point the current is interpolated linearly between the two
// nearest bracketing voltages.
func estimateSubgap(legs *sweep.Legs, vsg float64) (*SubgapResult, error) {
	res := &SubgapResult{}

	rsg, v1, v2, err := subgapAt(legs.FallToZero, vsg)
	if err != nil {
		return nil, fmt.Errorf("at +%g V: %w", vsg, err)
	}
	res.RsgPos, res.V1Pos, res.V2Pos = rsg, v1, v2

	rsg, v1, v2, err = subgapAt(legs.RiseToZero, -vsg)
	if err != nil {
		return nil, fmt.Errorf("at -%g V: %w", vsg, err)
	}
	res.RsgNeg, res.V1Neg, res.V2Neg = rsg, v1, v2
	return res, nil
}

// subgapAt evaluates V/I at the target voltage on one leg. The reported
// v1, v2 are the bracketing sample voltages the interpolation used; an
// exact hit reports the target twice.
func subgapAt(seg sweep.Segment, target float64) (rsg, v1, v2 float64, err error) {
	if seg.Len() == 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty return leg", ErrSubgapOutOfRange)
	}

	idx := make([]int, seg.Len())
	for n := range idx {
		idx[n] = n
	}
	sort.SliceStable(idx, func(a, b int) bool { return seg.V[idx[a]] < seg.V[idx[b]] })

	// Nearest sample at or below the target, and nearest above.
	lo, hi := -1, -1
	for _, n := range idx {
		if seg.V[n] <= target {
			lo = n
		} else {
			hi = n
			break
		}
	}

	if lo >= 0 && seg.V[lo] == target {
		if seg.I[lo] == 0 {
			return 0, 0, 0, fmt.Errorf("%w: zero current at %g V", ErrSubgapOutOfRange, target)
		}
		return target / seg.I[lo], target, target, nil
	}
	if lo < 0 || hi < 0 {
		return 0, 0, 0, fmt.Errorf("%w: leg spans [%g, %g] V, target %g V",
			ErrSubgapOutOfRange, seg.V[idx[0]], seg.V[idx[len(idx)-1]], target)
	}

	v1, v2 = seg.V[lo], seg.V[hi]
	frac := (target - v1) / (v2 - v1)
	current := seg.I[lo] + frac*(seg.I[hi]-seg.I[lo])
	if current == 0 || math.IsNaN(current) {
		return 0, 0, 0, fmt.Errorf("%w: interpolated current vanishes at %g V", ErrSubgapOutOfRange, target)
	}
	return target / current, v1, v2, nil
}
