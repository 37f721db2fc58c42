package sweep

import (
	"fmt"
	"math"
)

// Segment is a contiguous view over one monotone leg of a sweep.
type Segment struct {
	I []float64
	V []float64
}

// Len returns the number of samples in the leg.
func (s Segment) Len() int { return len(s.I) }

// Legs is the four-way split of a bipolar sweep. The legs are named by
// their role, not by their position in the sample order: RiseToMax runs
// from zero current to the positive extreme, FallToZero back to zero,
// FallToMin to the negative extreme and RiseToZero back again. MaxFirst
// records whether the positive extreme was reached before the negative
// one, which fixes the sample order of the legs.
type Legs struct {
	RiseToMax  Segment
	FallToZero Segment
	FallToMin  Segment
	RiseToZero Segment
	MaxFirst   bool
}

// Ordered returns the legs in sample order, so that concatenating them
// reproduces the split input exactly.
func (l *Legs) Ordered() [4]Segment {
	if l.MaxFirst {
		return [4]Segment{l.RiseToMax, l.FallToZero, l.FallToMin, l.RiseToZero}
	}
	return [4]Segment{l.FallToMin, l.RiseToZero, l.RiseToMax, l.FallToZero}
}

// Split partitions a bipolar sweep into its four legs. Boundaries are
// recomputed from the data on every call: the current extrema and the
// zero crossing between them decide the leg indices, so the split is
// correct for any sample count. The four legs partition the input with
// no sample duplicated or dropped.
//
// One-directional sweeps (current of a single polarity) cannot be split
// and yield ErrUnsupportedSweepShape.
func Split(I, V []float64) (*Legs, error) {
	if len(I) != len(V) || len(I) < 4 {
		return nil, fmt.Errorf("%w: %d samples", ErrDataInsufficient, len(I))
	}

	iMax, iMin := argExtrema(I)
	if I[iMax] <= 0 || I[iMin] >= 0 {
		return nil, fmt.Errorf("%w: sweep does not cover both current polarities",
			ErrUnsupportedSweepShape)
	}

	legs := &Legs{MaxFirst: iMax < iMin}
	if legs.MaxFirst {
		// The later extreme is the first minimum after the maximum.
		iMin = argMinAfter(I, iMax)
		zero := argZero(I, iMax, iMin)
		legs.RiseToMax = Segment{I[:iMax+1], V[:iMax+1]}
		legs.FallToZero = Segment{I[iMax+1 : zero+1], V[iMax+1 : zero+1]}
		legs.FallToMin = Segment{I[zero+1 : iMin+1], V[zero+1 : iMin+1]}
		legs.RiseToZero = Segment{I[iMin+1:], V[iMin+1:]}
	} else {
		iMax = argMaxAfter(I, iMin)
		zero := argZero(I, iMin, iMax)
		legs.FallToMin = Segment{I[:iMin+1], V[:iMin+1]}
		legs.RiseToZero = Segment{I[iMin+1 : zero+1], V[iMin+1 : zero+1]}
		legs.RiseToMax = Segment{I[zero+1 : iMax+1], V[zero+1 : iMax+1]}
		legs.FallToZero = Segment{I[iMax+1:], V[iMax+1:]}
	}
	return legs, nil
}

// argExtrema returns the indices of the first occurrence of the maximum
// and minimum current.
func argExtrema(I []float64) (iMax, iMin int) {
	for n, v := range I {
		if v > I[iMax] {
			iMax = n
		}
		if v < I[iMin] {
			iMin = n
		}
	}
	return iMax, iMin
}

func argMinAfter(I []float64, from int) int {
	best := from
	for n := from; n < len(I); n++ {
		if I[n] < I[best] {
			best = n
		}
	}
	return best
}

func argMaxAfter(I []float64, from int) int {
	best := from
	for n := from; n < len(I); n++ {
		if I[n] > I[best] {
			best = n
		}
	}
	return best
}

// argZero returns the index of the sample closest to zero current
// between the two extrema.
func argZero(I []float64, lo, hi int) int {
	best := lo
	for n := lo; n <= hi; n++ {
		if math.Abs(I[n]) < math.Abs(I[best]) {
			best = n
		}
	}
	return best
}
