package analysis

import (
	"errors"
	"testing"

	"ivsweep/pkg/sweep"
)

func TestEstimateSubgapExactHit(t *testing.T) {
	legs := &sweep.Legs{
		FallToZero: sweep.Segment{
			I: []float64{2e-6, 1e-6, 0},
			V: []float64{3.6e-3, 2.0e-3, 0},
		},
		RiseToZero: sweep.Segment{
			I: []float64{-2e-6, -1e-6, 0},
			V: []float64{-3.6e-3, -2.0e-3, 0},
		},
	}
	res, err := estimateSubgap(legs, 2.0e-3)
	if err != nil {
		t.Fatalf("estimateSubgap: %v", err)
	}
	approx(t, "RsgPos", res.RsgPos, 2000, 1e-6)
	approx(t, "RsgNeg", res.RsgNeg, 2000, 1e-6)
	if res.V1Pos != 2.0e-3 || res.V2Pos != 2.0e-3 {
		t.Errorf("exact hit brackets = (%g, %g), want the target twice", res.V1Pos, res.V2Pos)
	}
}

func TestEstimateSubgapInterpolates(t *testing.T) {
	legs := &sweep.Legs{
		FallToZero: sweep.Segment{
			I: []float64{2e-6, 0},
			V: []float64{3.6e-3, 0},
		},
		RiseToZero: sweep.Segment{
			I: []float64{-2e-6, 0},
			V: []float64{-3.6e-3, 0},
		},
	}
	res, err := estimateSubgap(legs, 2.0e-3)
	if err != nil {
		t.Fatalf("estimateSubgap: %v", err)
	}
	// I(2 mV) interpolates to 2u * 2/3.6 = 1.111 uA, so Rsg = 1800 Ohm.
	approx(t, "RsgPos", res.RsgPos, 1800, 1e-6)
	if res.V1Pos != 0 || res.V2Pos != 3.6e-3 {
		t.Errorf("brackets = (%g, %g), want (0, 3.6e-3)", res.V1Pos, res.V2Pos)
	}
	approx(t, "RsgNeg", res.RsgNeg, 1800, 1e-6)
}

func TestEstimateSubgapOutOfRange(t *testing.T) {
	// The return leg never reaches down to the subgap bias.
	legs := &sweep.Legs{
		FallToZero: sweep.Segment{
			I: []float64{3e-6, 2e-6},
			V: []float64{4e-3, 3e-3},
		},
		RiseToZero: sweep.Segment{
			I: []float64{-3e-6, -2e-6},
			V: []float64{-4e-3, -3e-3},
		},
	}
	_, err := estimateSubgap(legs, 2.0e-3)
	if !errors.Is(err, ErrSubgapOutOfRange) {
		t.Errorf("estimateSubgap = %v, want ErrSubgapOutOfRange", err)
	}

	_, err = estimateSubgap(&sweep.Legs{}, 2.0e-3)
	if !errors.Is(err, ErrSubgapOutOfRange) {
		t.Errorf("empty legs: got %v, want ErrSubgapOutOfRange", err)
	}
}
