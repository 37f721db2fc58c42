package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"ivsweep/pkg/sweep"
)

func mustAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(*Config)
	}{
		{"zero gap", func(c *Config) { c.GapVoltage = 0 }},
		{"negative subgap", func(c *Config) { c.SubgapVoltage = -1e-3 }},
		{"zero convolve", func(c *Config) { c.NConvolve = 0 }},
		{"bad policy", func(c *Config) { c.FitRangePolicy = "sometimes" }},
		{"scan range too wide", func(c *Config) { c.ArrayScanRange = 1.5 }},
		{"zero scan step", func(c *Config) { c.ArrayScanStep = 0 }},
		{"unknown estimator", func(c *Config) { c.Estimator = "oracle" }},
	}
	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.fn(&cfg)
			if _, err := New(cfg, nil); !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("New = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

func TestRunHystereticJunction(t *testing.T) {
	// Sparse hysteretic sweep in instrument units (uA / mV): switches
	// between 2 and 5 uA, normal branch 250 Ohm with a 2.8 mV gap.
	iRaw := []float64{-5, -2, 0, 2, 5, 2, 0, -2, -5, -2, 0, 2, 5}
	vRaw := []float64{-4.05, -3.3, 0, 0, 4.05, 3.3, 0, 0, -4.05, -3.3, 0, 0, 4.05}
	s, err := sweep.New(iRaw, vRaw, "uA", "mV")
	if err != nil {
		t.Fatalf("sweep.New: %v", err)
	}

	v0 := s.V[0]
	res, err := mustAnalyzer(t).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Type != HystereticJunction {
		t.Fatalf("Type = %v, want HystereticJunction", res.Type)
	}
	if math.Abs(res.Fit.IcPos-3e-6) > 2.1e-6 {
		t.Errorf("IcPos = %g, want about 3 uA", res.Fit.IcPos)
	}
	if math.Abs(res.Fit.IcNeg+3e-6) > 2.1e-6 {
		t.Errorf("IcNeg = %g, want about -3 uA", res.Fit.IcNeg)
	}
	approx(t, "RPos", res.Fit.RPos, 250, 1e-6)
	approx(t, "RNeg", res.Fit.RNeg, 250, 1e-6)
	approx(t, "VPos", res.Fit.VPos, 2.8e-3, 1e-9)
	approx(t, "VNeg", res.Fit.VNeg, -2.8e-3, 1e-9)
	approx(t, "VOffset", res.VOffset, 0, 1e-12)

	if res.Subgap == nil {
		t.Fatalf("Subgap = nil (err %v), want a result", res.SubgapErr)
	}
	approx(t, "RsgPos", res.Subgap.RsgPos, 1000, 1e-3)
	approx(t, "RsgNeg", res.Subgap.RsgNeg, 1650, 1e-3)

	// The input sweep must not be mutated.
	if s.V[0] != v0 {
		t.Error("Run mutated the input sweep")
	}
}

func TestRunResistor(t *testing.T) {
	I, V := rampCycle(1e-3, 50e-6, 50, 1e-3)
	s := &sweep.Sweep{I: I, V: V}

	res, err := mustAnalyzer(t).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Type != Resistor {
		t.Fatalf("Type = %v, want Resistor", res.Type)
	}
	approx(t, "RPos", res.Fit.RPos, 50, 1e-6)
	approx(t, "VPos", res.Fit.VPos, 0, 1e-9)
	approx(t, "VOffset", res.VOffset, 1e-3, 1e-9)
	if res.Fit.IcPos != 0 || res.Fit.IcNeg != 0 {
		t.Errorf("resistor Ic = (%g, %g), want zero", res.Fit.IcPos, res.Fit.IcNeg)
	}
	if res.Subgap != nil || res.Spread != nil {
		t.Error("resistor carries junction-only results")
	}
}

func TestRunJunctionArray(t *testing.T) {
	// Full cycle of a 10-junction array: the switching branches carry
	// the staircase, the retrapped return branches sit at a constant
	// low voltage.
	rise := staircase()
	var I, V []float64
	appendSeg := func(seg sweep.Segment) {
		I = append(I, seg.I...)
		V = append(V, seg.V...)
	}
	appendSeg(rise)
	appendSeg(flatLeg(5e-3, +1))
	fallNeg := sweep.Segment{}
	for n := range rise.I {
		fallNeg.I = append(fallNeg.I, -rise.I[n])
		fallNeg.V = append(fallNeg.V, -rise.V[n])
	}
	appendSeg(fallNeg)
	appendSeg(flatLeg(5e-3, -1))

	s := &sweep.Sweep{I: I, V: V}
	res, err := mustAnalyzer(t).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Type != JunctionArray {
		t.Fatalf("Type = %v, want JunctionArray", res.Type)
	}
	if res.Spread == nil {
		t.Fatal("Spread = nil, want a result")
	}
	if res.Spread.JunctionCount != 10 {
		t.Errorf("JunctionCount = %d, want 10", res.Spread.JunctionCount)
	}
	approx(t, "GapVoltage", res.Spread.GapVoltage, 2.75e-3, 1e-8)
	approx(t, "CriticalCurrents[0]", res.Spread.CriticalCurrents[0], 9e-6, 1e-12)

	// The adaptive policy pushes the fit window past 10 gaps, onto the
	// 200 Ohm normal branch.
	approx(t, "RPos", res.Fit.RPos, 200, 1e-6)
	approx(t, "RNeg", res.Fit.RNeg, 200, 1e-6)
	approx(t, "IcPos", res.Fit.IcPos, 10e-6, 1e-12)
	approx(t, "IcNeg", res.Fit.IcNeg, -10e-6, 1e-12)
}

func TestRunOneDirectionalSweep(t *testing.T) {
	s := &sweep.Sweep{
		I: []float64{0, 1e-6, 2e-6, 3e-6, 2e-6, 1e-6, 0},
		V: []float64{0, 1e-3, 2e-3, 3e-3, 2e-3, 1e-3, 0},
	}
	_, err := mustAnalyzer(t).Run(context.Background(), s)
	if !errors.Is(err, sweep.ErrUnsupportedSweepShape) {
		t.Errorf("Run = %v, want ErrUnsupportedSweepShape", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	I, V := rampCycle(1e-3, 50e-6, 50, 0)
	_, err := mustAnalyzer(t).Run(ctx, &sweep.Sweep{I: I, V: V})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
