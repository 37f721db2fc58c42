// Package analysis turns a corrected current-voltage sweep into the
// physical parameters of the device under test: curve type, critical
// currents, normal-state resistance, subgap resistance and, for arrays,
// the critical-current spread.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ivsweep/pkg/sweep"
)

// Analyzer runs the full interpretation pipeline with a fixed
// configuration. It is safe for concurrent use: Run never mutates the
// analyzer or its input sweep.
type Analyzer struct {
	cfg       Config
	log       *zap.SugaredLogger
	estimator GapVoltageEstimator
}

// New validates the configuration and builds an analyzer. A nil logger
// disables logging.
func New(cfg Config, log *zap.SugaredLogger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	a := &Analyzer{cfg: cfg, log: log}
	switch cfg.Estimator {
	case EstimatorIntegerFit:
		a.estimator = IntegerFitEstimator{Range: cfg.ArrayScanRange, Step: cfg.ArrayScanStep}
	}
	return a, nil
}

// SetEstimator swaps in a custom gap-voltage estimator. Call before the
// first Run; the analyzer is otherwise immutable.
func (a *Analyzer) SetEstimator(est GapVoltageEstimator) {
	if est != nil {
		a.estimator = est
	}
}

// Run analyzes one sweep. The returned result holds the corrected
// copies of the current and voltage sequences; the input sweep is left
// untouched. A subgap bias the data cannot bracket is reported inside
// the result rather than failing the run.
func (a *Analyzer) Run(ctx context.Context, s *sweep.Sweep) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	I := append([]float64(nil), s.I...)
	V := append([]float64(nil), s.V...)

	offset, noise, err := removeVoltageOffset(I, V)
	if err != nil {
		return nil, fmt.Errorf("voltage offset: %w", err)
	}
	if flipped := correctVoltageSign(I, V); flipped {
		a.log.Debugw("voltage sign flipped", "offset", offset)
	}

	legs, err := sweep.Split(I, V)
	if err != nil {
		return nil, fmt.Errorf("segment split: %w", err)
	}

	res := &Result{
		Type:    classify(I, V, a.cfg.GapVoltage),
		VOffset: offset,
		VNoise:  noise,
		I:       I,
		V:       V,
	}
	a.log.Debugw("curve classified",
		"type", res.Type.String(), "offset_v", offset, "noise_v", noise)

	junctions := 1
	if res.Type == JunctionArray {
		spread, err := analyzeSpread(ctx, legs, a.cfg, a.estimator)
		if err != nil {
			return nil, fmt.Errorf("array spread: %w", err)
		}
		res.Spread = spread
		junctions = spread.JunctionCount
		a.log.Debugw("array spread resolved",
			"junctions", spread.JunctionCount, "gap_v", spread.GapVoltage)
	}

	icPos, icNeg := criticalCurrents(legs, res.Type, noise, a.cfg.GapVoltage, a.cfg.NConvolve)

	res.Fit, err = fitResistance(I, V, res.Type, a.cfg, icPos, icNeg, junctions)
	if err != nil {
		return nil, fmt.Errorf("resistance fit: %w", err)
	}

	if res.Type == HystereticJunction {
		subgap, err := estimateSubgap(legs, a.cfg.SubgapVoltage)
		switch {
		case err == nil:
			res.Subgap = subgap
		case errors.Is(err, ErrSubgapOutOfRange):
			res.SubgapErr = err
			a.log.Warnw("subgap bias not bracketed by data", "error", err)
		default:
			return nil, fmt.Errorf("subgap: %w", err)
		}
	}
	return res, nil
}
