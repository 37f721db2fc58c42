package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// fitResistance fits the normal-state branch V = V_intcp + R*I per
// polarity. The fit window depends on the curve type: resistors use the
// whole curve, hysteretic curves the samples above the gap (scaled by
// the junction count for arrays under the adaptive policy), overdamped
// curves the samples beyond the midpoint between the critical current
// and the gap knee.
func fitResistance(I, V []float64, ct CurveType, cfg Config, icPos, icNeg float64, junctions int) (FitResult, error) {
	res := FitResult{IcPos: icPos, IcNeg: icNeg}

	if ct == Resistor {
		slope, intcp, err := fitLine(I, V, func(int) bool { return true })
		if err != nil {
			return res, err
		}
		res.RPos, res.RNeg = slope, slope
		res.VPos, res.VNeg = intcp, intcp
		return res, nil
	}

	posKeep, negKeep, err := fitWindows(I, V, ct, cfg, icPos, icNeg, junctions)
	if err != nil {
		return res, err
	}

	slope, intcp, err := fitLine(I, V, posKeep)
	if err != nil {
		return res, fmt.Errorf("positive branch: %w", err)
	}
	res.RPos, res.VPos = slope, intcp

	slope, intcp, err = fitLine(I, V, negKeep)
	if err != nil {
		return res, fmt.Errorf("negative branch: %w", err)
	}
	res.RNeg, res.VNeg = slope, intcp
	return res, nil
}

// fitWindows builds the per-polarity sample filters for junction fits.
func fitWindows(I, V []float64, ct CurveType, cfg Config, icPos, icNeg float64, junctions int) (pos, neg func(int) bool, err error) {
	switch ct {
	case HystereticJunction, JunctionArray:
		vmin := 1.1 * cfg.GapVoltage
		if ct == JunctionArray && cfg.FitRangePolicy == FitRangeAdaptive && junctions > 1 {
			vmin = 1.1 * float64(junctions) * cfg.GapVoltage
		}
		pos = func(n int) bool { return V[n] > vmin }
		neg = func(n int) bool { return V[n] < -vmin }
		return pos, neg, nil

	case OverdampedJunction:
		posLimit := overdampedLimit(I, V, icPos, cfg.GapVoltage, +1)
		negLimit := overdampedLimit(I, V, icNeg, cfg.GapVoltage, -1)
		pos = func(n int) bool { return I[n] > posLimit }
		neg = func(n int) bool { return I[n] < negLimit }
		return pos, neg, nil
	}
	return nil, nil, fmt.Errorf("%w: no fit window for curve type %v", ErrInsufficientFitData, ct)
}

// overdampedLimit returns the current beyond which the curve is treated
// as linear: the midpoint between the critical current and the largest
// bias still inside the gap knee. With no samples inside the knee the
// limit collapses onto the critical current itself.
func overdampedLimit(I, V []float64, ic, vg float64, sign int) float64 {
	knee := ic
	for n := range I {
		if float64(sign)*I[n] <= 0 {
			continue
		}
		if math.Abs(V[n]) < 0.9*vg && float64(sign)*I[n] > float64(sign)*knee {
			knee = I[n]
		}
	}
	return (ic + knee) / 2
}

// fitLine runs an ordinary least-squares fit over the kept samples and
// reports the slope and intercept. Fewer than two distinct currents
// leave the slope undefined.
func fitLine(I, V []float64, keep func(int) bool) (slope, intcp float64, err error) {
	var x, y []float64
	for n := range I {
		if keep(n) {
			x = append(x, I[n])
			y = append(y, V[n])
		}
	}
	if len(x) < 2 || !hasTwoDistinct(x) {
		return 0, 0, fmt.Errorf("%w: %d samples in fit window", ErrInsufficientFitData, len(x))
	}
	intcp, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intcp, nil
}

func hasTwoDistinct(x []float64) bool {
	for n := 1; n < len(x); n++ {
		if x[n] != x[0] {
			return true
		}
	}
	return false
}
