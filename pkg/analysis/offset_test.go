package analysis

import (
	"errors"
	"math"
	"testing"

	"ivsweep/pkg/sweep"
)

// rampCycle builds a full bipolar triangle sweep with the given current
// step and amplitude, with V = r*I + v0.
func rampCycle(amplitude, step, r, v0 float64) (I, V []float64) {
	push := func(c float64) {
		I = append(I, c)
		V = append(V, r*c+v0)
	}
	for c := 0.0; c <= amplitude+step/2; c += step {
		push(c)
	}
	for c := amplitude - step; c >= -amplitude-step/2; c -= step {
		push(c)
	}
	for c := -amplitude + step; c <= step/2; c += step {
		push(c)
	}
	return I, V
}

func TestRemoveVoltageOffsetRecovers(t *testing.T) {
	I, V := rampCycle(5e-3, 1e-3, 100, 1e-3)
	offset, noise, err := removeVoltageOffset(I, V)
	if err != nil {
		t.Fatalf("removeVoltageOffset: %v", err)
	}
	if math.Abs(offset-1e-3) > 1e-12 {
		t.Errorf("offset = %g, want 1e-3", offset)
	}
	if noise != 0 {
		t.Errorf("noise = %g, want 0", noise)
	}
	for n := range V {
		if math.Abs(V[n]-100*I[n]) > 1e-12 {
			t.Fatalf("V[%d] = %g after correction, want %g", n, V[n], 100*I[n])
		}
	}
}

func TestRemoveVoltageOffsetFloor(t *testing.T) {
	// An offset below the resolution floor is treated as zero.
	I, V := rampCycle(5e-3, 1e-3, 100, 1e-5)
	before := V[0]
	offset, _, err := removeVoltageOffset(I, V)
	if err != nil {
		t.Fatalf("removeVoltageOffset: %v", err)
	}
	if offset != 0 {
		t.Errorf("offset = %g, want 0 below the floor", offset)
	}
	if V[0] != before {
		t.Error("voltages changed despite zero offset")
	}
}

func TestRemoveVoltageOffsetFallback(t *testing.T) {
	// No sample inside the near-zero current window: the smallest-|I|
	// samples carry the estimate instead.
	I := []float64{20e-6, 30e-6, 40e-6, 50e-6, 60e-6}
	V := []float64{5e-3, 5e-3, 5e-3, 5e-3, 5e-3}
	offset, _, err := removeVoltageOffset(I, V)
	if err != nil {
		t.Fatalf("removeVoltageOffset: %v", err)
	}
	if math.Abs(offset-5e-3) > 1e-12 {
		t.Errorf("offset = %g, want 5e-3", offset)
	}

	_, _, err = removeVoltageOffset([]float64{20e-6, 30e-6}, []float64{0, 0})
	if !errors.Is(err, sweep.ErrDataInsufficient) {
		t.Errorf("short fallback: got %v, want ErrDataInsufficient", err)
	}
}

func TestCorrectVoltageSign(t *testing.T) {
	I, V := rampCycle(5e-3, 1e-3, -100, 0)
	if !correctVoltageSign(I, V) {
		t.Fatal("reversed polarity not detected")
	}
	for n := range V {
		if math.Abs(V[n]-100*I[n]) > 1e-12 {
			t.Fatalf("V[%d] = %g after flip, want %g", n, V[n], 100*I[n])
		}
	}
	// Idempotent: a corrected curve is left alone.
	if correctVoltageSign(I, V) {
		t.Error("second pass flipped an already corrected curve")
	}
}
