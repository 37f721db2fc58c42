package analysis

import (
	"fmt"

	"ivsweep/internal/consts"
)

// FitRangePolicy selects how the high-bias resistance-fit window is sized.
type FitRangePolicy string

const (
	// FitRangeFixed sizes the window from the single-junction gap voltage
	// for every curve type.
	FitRangeFixed FitRangePolicy = "fixed"
	// FitRangeAdaptive widens the window for junction arrays in
	// proportion to the inferred junction count.
	FitRangeAdaptive FitRangePolicy = "adaptive"
)

// EstimatorIntegerFit is the integer-fit gap-voltage scan, the only
// estimator currently shipped.
const EstimatorIntegerFit = "integer-fit"

// Config carries every tunable of the analysis pipeline. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// GapVoltage is the nominal per-junction gap voltage V_g (V).
	GapVoltage float64 `yaml:"gap_voltage"`
	// SubgapVoltage is the bias point V_sg for the subgap resistance (V).
	SubgapVoltage float64 `yaml:"subgap_voltage"`
	// NConvolve is the moving-average window applied to segment voltages
	// before critical-current extraction. 1 disables smoothing.
	NConvolve int `yaml:"n_convolve"`
	// FitRangePolicy sizes the resistance-fit window.
	FitRangePolicy FitRangePolicy `yaml:"fit_range_policy"`
	// ArrayScanRange is the half-width of the gap-voltage scan as a
	// fraction of GapVoltage.
	ArrayScanRange float64 `yaml:"array_scan_range"`
	// ArrayScanStep is the gap-voltage scan step (V).
	ArrayScanStep float64 `yaml:"array_scan_step"`
	// Estimator names the gap-voltage estimation method.
	Estimator string `yaml:"estimator"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		GapVoltage:     consts.GapVoltage,
		SubgapVoltage:  consts.SubgapVoltage,
		NConvolve:      consts.NConvolve,
		FitRangePolicy: FitRangeAdaptive,
		ArrayScanRange: consts.ScanRange,
		ArrayScanStep:  consts.ScanStep,
		Estimator:      EstimatorIntegerFit,
	}
}

// Validate rejects out-of-range values up front so that no pipeline step
// has to guard against them.
func (c Config) Validate() error {
	if c.GapVoltage <= 0 {
		return fmt.Errorf("%w: gap_voltage must be positive, got %g", ErrConfigInvalid, c.GapVoltage)
	}
	if c.SubgapVoltage <= 0 {
		return fmt.Errorf("%w: subgap_voltage must be positive, got %g", ErrConfigInvalid, c.SubgapVoltage)
	}
	if c.NConvolve < 1 {
		return fmt.Errorf("%w: n_convolve must be at least 1, got %d", ErrConfigInvalid, c.NConvolve)
	}
	switch c.FitRangePolicy {
	case FitRangeFixed, FitRangeAdaptive:
	default:
		return fmt.Errorf("%w: unknown fit_range_policy %q", ErrConfigInvalid, c.FitRangePolicy)
	}
	if c.ArrayScanRange <= 0 || c.ArrayScanRange >= 1 {
		return fmt.Errorf("%w: array_scan_range must be in (0, 1), got %g", ErrConfigInvalid, c.ArrayScanRange)
	}
	if c.ArrayScanStep <= 0 {
		return fmt.Errorf("%w: array_scan_step must be positive, got %g", ErrConfigInvalid, c.ArrayScanStep)
	}
	if c.Estimator != EstimatorIntegerFit {
		return fmt.Errorf("%w: unknown estimator %q", ErrConfigInvalid, c.Estimator)
	}
	return nil
}
