package consts

// Analysis defaults. Voltages in volts, currents in amperes.
const (
	GapVoltage    = 2.8e-3 // per-junction gap voltage V_g
	SubgapVoltage = 2.0e-3 // bias point V_sg for subgap resistance
	NConvolve     = 1      // moving-average window, 1 = no smoothing

	ScanRange = 0.02 // gap-voltage scan half-width, fraction of V_g
	ScanStep  = 1e-6 // gap-voltage scan step (V)

	// Offset estimation uses samples with |I| below this window,
	// falling back to the few samples closest to zero current.
	OffsetCurrentWindow = 10e-6
	OffsetFallbackCount = 5

	// Estimated offsets below this floor are treated as zero.
	OffsetVoltageFloor = 0.2e-4

	MinSweepPoints = 5
)

// Classifier and extractor thresholds.
const (
	ClassifyTailPoints    = 20   // points in each low/high-bias comparison fit
	SlopeMatchTolerance   = 0.25 // relative slope agreement for a resistor
	LowBiasCorrMin        = 0.9  // low-bias fit correlation below this counts as zero slope
	HysteresisFraction    = 0.25 // jump above V_g/4 means hysteresis
	ArrayHysteresisFactor = 1.5  // jump above 1.5*V_g means an array

	// A voltage departure counts as a transition only beyond the larger of
	// the measured noise band and this fraction of V_g.
	NoiseFloorFraction = 0.05

	// Voltage jumps above V_g/3 open the array transition window.
	JumpThresholdDivisor = 3.0
)
