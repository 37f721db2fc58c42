package analysis

// CurveType classifies the element under test.
type CurveType int

const (
	// Resistor is a purely ohmic element.
	Resistor CurveType = iota
	// HystereticJunction is an underdamped junction whose switching and
	// retrapping currents differ (JJu).
	HystereticJunction
	// OverdampedJunction has a single non-hysteretic transition (JJo).
	OverdampedJunction
	// JunctionArray is a series array whose transitions step by integer
	// multiples of a shared gap voltage (JJa).
	JunctionArray
)

func (t CurveType) String() string {
	switch t {
	case Resistor:
		return "R"
	case HystereticJunction:
		return "JJu"
	case OverdampedJunction:
		return "JJo"
	case JunctionArray:
		return "JJa"
	default:
		return "?"
	}
}

// FitResult holds the critical currents and normal-state resistance fits
// for both sweep directions.
type FitResult struct {
	IcPos float64 // positive critical current (A)
	IcNeg float64 // negative critical current (A)
	RPos  float64 // positive-branch fitted resistance (Ohm)
	RNeg  float64 // negative-branch fitted resistance (Ohm)
	VPos  float64 // voltage-axis intercept of the positive fit (V)
	VNeg  float64 // voltage-axis intercept of the negative fit (V)
}

// SubgapResult holds the subgap resistance per polarity together with
// the two bracketing voltage samples each interpolation used.
type SubgapResult struct {
	RsgPos float64 // subgap resistance at +V_sg (Ohm)
	V1Pos  float64 // lower bracketing voltage (V)
	V2Pos  float64 // upper bracketing voltage (V)
	RsgNeg float64
	V1Neg  float64
	V2Neg  float64
}

// ArraySpreadResult describes the critical-current distribution of a
// junction array.
type ArraySpreadResult struct {
	// GapVoltage is the optimal per-junction gap voltage the scan
	// settled on.
	GapVoltage float64
	// JunctionCount is the total number of junctions inferred.
	JunctionCount int
	// CriticalCurrents and Counts are aligned: Counts[n] junctions
	// switched at bias current CriticalCurrents[n].
	CriticalCurrents []float64
	Counts           []int
}

// Result bundles everything one analysis run produced. I and V are the
// offset- and sign-corrected sequences every number was computed from,
// kept for downstream rendering.
type Result struct {
	Type CurveType
	Fit  FitResult
	// Subgap is set for hysteretic junctions whose subgap bias was
	// bracketed by the data; SubgapErr holds the typed estimator error
	// otherwise.
	Subgap    *SubgapResult
	SubgapErr error
	// Spread is set for junction arrays.
	Spread *ArraySpreadResult

	VOffset float64 // removed voltage offset (V)
	VNoise  float64 // noise band estimated from near-zero samples (V)

	I []float64
	V []float64
}
