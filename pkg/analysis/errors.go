package analysis

import "errors"

// Failure kinds surfaced by the analysis pipeline. Callers batch-processing
// many sweeps match these with errors.Is to decide whether to skip, retry
// or abort; no step substitutes a silent default for a missing quantity.
var (
	// ErrInsufficientFitData reports a resistance-fit window with fewer
	// than two usable samples.
	ErrInsufficientFitData = errors.New("insufficient data in fit range")
	// ErrSubgapOutOfRange reports that the subgap bias voltage is not
	// bracketed by the measured samples.
	ErrSubgapOutOfRange = errors.New("subgap voltage outside measured range")
	// ErrConfigInvalid reports an unrecognized or out-of-range
	// configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")
)
