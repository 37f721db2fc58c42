package analysis

import (
	"math"
	"testing"
)

// hystereticCycle builds a dense bipolar sweep from two branch profiles:
// out for the legs moving away from zero current, ret for the legs
// moving back. Both are given for positive bias and mirrored by odd
// symmetry.
func hystereticCycle(amplitude, step float64, out, ret func(i float64) float64) (I, V []float64) {
	push := func(c float64, f func(float64) float64) {
		I = append(I, c)
		V = append(V, math.Copysign(f(math.Abs(c)), c))
	}
	for c := 0.0; c <= amplitude+step/2; c += step {
		push(c, out)
	}
	for c := amplitude - step; c >= step/2; c -= step {
		push(c, ret)
	}
	for c := 0.0; c >= -amplitude-step/2; c -= step {
		push(c, out)
	}
	for c := -amplitude + step; c <= -step/2; c += step {
		push(c, ret)
	}
	return I, V
}

func TestClassify(t *testing.T) {
	const (
		vg   = 2.8e-3
		ic   = 20e-6
		ir   = 5e-6
		rn   = 10.0
		amp  = 50e-6
		step = 1e-6
	)
	ohmic := func(i float64) float64 { return 100 * i }
	overdamped := func(i float64) float64 {
		if i <= ic {
			return 0
		}
		return rn * (i - ic)
	}
	gapBranch := func(n float64) func(float64) float64 {
		return func(i float64) float64 { return n*vg + rn*(i-ic) }
	}
	switching := func(n float64) func(float64) float64 {
		return func(i float64) float64 {
			if i <= ic {
				return 0
			}
			return gapBranch(n)(i)
		}
	}
	retrapping := func(n float64) func(float64) float64 {
		return func(i float64) float64 {
			if i < ir {
				return 0
			}
			return gapBranch(n)(i)
		}
	}

	tests := []struct {
		name     string
		out, ret func(float64) float64
		want     CurveType
	}{
		{"ohmic", ohmic, ohmic, Resistor},
		{"overdamped", overdamped, overdamped, OverdampedJunction},
		{"hysteretic", switching(1), retrapping(1), HystereticJunction},
		{"array", switching(3), retrapping(3), JunctionArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			I, V := hystereticCycle(amp, step, tt.out, tt.ret)
			if got := classify(I, V, vg); got != tt.want {
				t.Errorf("classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifySmallSweep(t *testing.T) {
	// A 13-point hysteretic sweep: the tail size adapts so the low- and
	// high-bias windows stay disjoint.
	I := []float64{-5e-6, -2e-6, 0, 2e-6, 5e-6, 2e-6, 0, -2e-6, -5e-6, -2e-6, 0, 2e-6, 5e-6}
	V := []float64{-4.05e-3, -3.3e-3, 0, 0, 4.05e-3, 3.3e-3, 0, 0, -4.05e-3, -3.3e-3, 0, 0, 4.05e-3}
	if got := classify(I, V, 2.8e-3); got != HystereticJunction {
		t.Errorf("classify = %v, want HystereticJunction", got)
	}
}
