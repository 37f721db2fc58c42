package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"ivsweep/internal/consts"
	"ivsweep/pkg/sweep"
)

// GapVoltageEstimator refines the per-junction gap voltage of an array
// from the voltage steps observed on the switching branch. jumps holds
// every step between current-adjacent samples inside the switching
// region, vg0 the nominal single-junction gap voltage.
type GapVoltageEstimator interface {
	Estimate(ctx context.Context, jumps []float64, vg0 float64) (float64, error)
}

// IntegerFitEstimator scans candidate gap voltages around the nominal
// value and keeps the one under which every observed step is closest to
// an integer multiple. Ties resolve to the smallest candidate.
type IntegerFitEstimator struct {
	// Range is the scan half-width as a fraction of the nominal gap.
	Range float64
	// Step is the scan step in volts.
	Step float64
}

func (e IntegerFitEstimator) Estimate(ctx context.Context, jumps []float64, vg0 float64) (float64, error) {
	if len(jumps) == 0 {
		return 0, fmt.Errorf("%w: no voltage steps to fit", sweep.ErrDataInsufficient)
	}
	lo := vg0 * (1 - e.Range)
	hi := vg0 * (1 + e.Range)

	best := 0.0
	bestResidual := math.Inf(1)
	for v := lo; v <= hi; v += e.Step {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		var residual float64
		for _, dv := range jumps {
			ratio := dv / v
			residual += math.Abs(math.Round(ratio) - ratio)
		}
		if residual < bestResidual {
			best, bestResidual = v, residual
		}
	}
	return best, nil
}

// analyzeSpread infers the critical-current distribution of a junction
// array from the positive switching branch. Each voltage step on that
// branch is a group of junctions switching together; dividing the step
// by the fitted gap voltage and rounding gives the group size.
func analyzeSpread(ctx context.Context, legs *sweep.Legs, cfg Config, est GapVoltageEstimator) (*ArraySpreadResult, error) {
	vgMeasured := measuredGapVoltage(legs.FallToZero)

	jumps, ics, err := extractJumps(legs.RiseToMax, cfg.GapVoltage, vgMeasured)
	if err != nil {
		return nil, fmt.Errorf("switching branch: %w", err)
	}

	vg, err := est.Estimate(ctx, jumps, cfg.GapVoltage)
	if err != nil {
		return nil, err
	}

	res := &ArraySpreadResult{
		GapVoltage:       vg,
		CriticalCurrents: ics,
		Counts:           make([]int, len(jumps)),
	}
	for n, dv := range jumps {
		count := int(math.Round(dv / vg))
		if count < 0 {
			count = 0
		}
		res.Counts[n] = count
		res.JunctionCount += count
	}
	return res, nil
}

// measuredGapVoltage reads the total gap voltage off a return leg as the
// bias point of maximum differential resistance, with outliers and the
// trailing quarter of the leg masked out. Zero means the leg carries no
// usable gap signature, in which case callers fall back to the nominal
// value alone.
func measuredGapVoltage(seg sweep.Segment) float64 {
	if seg.Len() < 2 {
		return 0
	}
	r := make([]float64, seg.Len()-1)
	for n := range r {
		r[n] = math.Abs(seg.V[n+1]-seg.V[n]) / (math.Abs(seg.I[n+1]-seg.I[n]) + 1e-9)
	}

	_, sd := stat.MeanStdDev(r, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	med := median(r)

	masked := make([]bool, len(r))
	for n := range r {
		if math.Abs(r[n]-med) > 3*sd {
			masked[n] = true
		}
	}
	if len(r) >= 4 {
		for n := len(r) - len(r)/4; n < len(r); n++ {
			masked[n] = true
		}
	}

	arg := -1
	for n := range r {
		if masked[n] {
			continue
		}
		if arg < 0 || r[n] > r[arg] {
			arg = n
		}
	}
	if arg < 0 {
		return 0
	}
	return math.Abs(seg.V[arg])
}

// extractJumps isolates the switching region of the rising branch and
// returns its voltage steps plus the bias current just before each step.
// The region opens at the first step larger than a third of the gap and
// closes when the curve settles onto the normal branch; a measured total
// gap voltage, when available, caps the region at the bias closest to it.
func extractJumps(seg sweep.Segment, vg, vgMeasured float64) (jumps, ics []float64, err error) {
	if seg.Len() < 2 {
		return nil, nil, fmt.Errorf("%w: %d samples on the rising branch", sweep.ErrDataInsufficient, seg.Len())
	}
	diff := make([]float64, seg.Len()-1)
	for n := range diff {
		diff[n] = seg.V[n+1] - seg.V[n]
	}
	threshold := vg / consts.JumpThresholdDivisor

	minarg := -1
	for n, d := range diff {
		if d > threshold {
			minarg = n
			break
		}
	}
	if minarg < 0 {
		return nil, nil, fmt.Errorf("%w: no voltage step above %g V", sweep.ErrDataInsufficient, threshold)
	}

	maxarg := len(diff) - 1
	if vgMeasured > 0 {
		for n := minarg; n+2 < len(diff); n++ {
			settled := diff[n] < threshold && diff[n+1] < threshold && diff[n+2] < threshold
			if settled && math.Abs(seg.V[n]-vgMeasured) < vgMeasured/4 {
				maxarg = n
				break
			}
		}
		nearest := minarg
		for n := minarg; n < seg.Len(); n++ {
			if math.Abs(seg.V[n]-vgMeasured) < math.Abs(seg.V[nearest]-vgMeasured) {
				nearest = n
			}
		}
		if nearest-1 < maxarg {
			maxarg = nearest - 1
		}
		if maxarg < minarg {
			maxarg = minarg
		}
	}

	return diff[minarg : maxarg+1], seg.I[minarg : maxarg+1], nil
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
