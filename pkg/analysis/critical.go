package analysis

import (
	"math"
	"sort"

	"ivsweep/internal/consts"
	"ivsweep/pkg/sweep"
)

// criticalCurrents finds the bias current at which each polarity leaves
// the zero-voltage state. Walking each leg in order of growing |I|, the
// critical current is the first sample whose voltage departs the noise
// band; a leg with no departure contributes the zero sentinel. Voltages
// may be smoothed with a moving average of window nConvolve first to
// suppress single-sample spikes.
//
// Hysteretic curves switch on the outgoing legs only, so the return legs
// are not searched. Overdamped curves transition at the same current in
// both directions and the smaller measured candidate wins.
func criticalCurrents(legs *sweep.Legs, ct CurveType, noise, vg float64, nConvolve int) (icPos, icNeg float64) {
	if ct == Resistor {
		return 0, 0
	}
	threshold := math.Max(noise, consts.NoiseFloorFraction*vg)

	pos := []sweep.Segment{legs.RiseToMax, legs.FallToZero}
	neg := []sweep.Segment{legs.FallToMin, legs.RiseToZero}
	hysteretic := ct == HystereticJunction || ct == JunctionArray
	if hysteretic {
		pos = pos[:1]
		neg = neg[:1]
	}

	for _, seg := range pos {
		ic := legDeparture(seg, +1, threshold, nConvolve)
		if ic > 0 && (icPos == 0 || ic < icPos) {
			icPos = ic
		}
	}
	for _, seg := range neg {
		ic := legDeparture(seg, -1, threshold, nConvolve)
		if ic < 0 && (icNeg == 0 || ic > icNeg) {
			icNeg = ic
		}
	}
	return icPos, icNeg
}

// legDeparture returns the current of the first sample, in order of
// growing |I| and matching the leg polarity, whose |V| exceeds the
// threshold. Zero means the leg never departs.
func legDeparture(seg sweep.Segment, sign int, threshold float64, nConvolve int) float64 {
	if seg.Len() == 0 {
		return 0
	}
	v := seg.V
	skip := 0
	if nConvolve > 1 {
		v = movingAverage(seg.V, nConvolve)
		skip = nConvolve - 1 // attenuated edges
	}

	idx := make([]int, seg.Len())
	for n := range idx {
		idx[n] = n
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(seg.I[idx[a]]) < math.Abs(seg.I[idx[b]])
	})

	for _, n := range idx {
		if n < skip || n >= seg.Len()-skip {
			continue
		}
		if float64(sign)*seg.I[n] <= 0 {
			continue
		}
		if math.Abs(v[n]) > threshold {
			return seg.I[n]
		}
	}
	return 0
}

// movingAverage is a centered window mean with zero padding, matching
// convolution with a box kernel of the same length.
func movingAverage(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	half := (window - 1) / 2
	for n := range x {
		var sum float64
		for m := n - half; m <= n-half+window-1; m++ {
			if m >= 0 && m < len(x) {
				sum += x[m]
			}
		}
		out[n] = sum / float64(window)
	}
	return out
}
