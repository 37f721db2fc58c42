// Package sweep holds the raw current-voltage sweep data model: unit
// conversion into SI amperes/volts, validation, two-column text parsing
// and the four-leg segment split of a bipolar sweep.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"ivsweep/internal/consts"
)

var (
	// ErrDataInsufficient reports a sweep with too few or invalid samples.
	ErrDataInsufficient = errors.New("insufficient sweep data")
	// ErrUnsupportedSweepShape reports a sweep that does not cover both
	// current polarities. One-directional sweeps are not supported.
	ErrUnsupportedSweepShape = errors.New("unsupported sweep shape")
)

// SI prefix multipliers, keyed by the first rune of a unit string
// ("uA" -> 1e-6, "mV" -> 1e-3). Bare "A" and "V" map to 1.
var unitMap = map[rune]float64{
	'T': 1e12,
	'G': 1e9,
	'M': 1e6,
	'k': 1e3,
	'm': 1e-3,
	'u': 1e-6,
	'n': 1e-9,
	'p': 1e-12,
	'f': 1e-15,
}

// UnitMultiplier returns the SI multiplier encoded by the prefix of a
// unit string. Unprefixed units ("A", "V", "Ohm") return 1.
func UnitMultiplier(unit string) float64 {
	for _, r := range unit {
		if m, ok := unitMap[r]; ok {
			return m
		}
		break
	}
	return 1.0
}

// Sweep is one measured current-voltage sweep in SI units (A, V).
type Sweep struct {
	I []float64
	V []float64
}

// New converts the raw columns into SI units and validates them. The raw
// slices are not retained. Non-finite samples and sweeps shorter than a
// handful of points are rejected.
func New(iRaw, vRaw []float64, iUnit, vUnit string) (*Sweep, error) {
	if len(iRaw) != len(vRaw) {
		return nil, fmt.Errorf("%w: current and voltage lengths differ (%d vs %d)",
			ErrDataInsufficient, len(iRaw), len(vRaw))
	}
	if len(iRaw) < consts.MinSweepPoints {
		return nil, fmt.Errorf("%w: %d samples, need at least %d",
			ErrDataInsufficient, len(iRaw), consts.MinSweepPoints)
	}

	im := UnitMultiplier(iUnit)
	vm := UnitMultiplier(vUnit)

	s := &Sweep{
		I: make([]float64, len(iRaw)),
		V: make([]float64, len(vRaw)),
	}
	for n := range iRaw {
		i := iRaw[n] * im
		v := vRaw[n] * vm
		if math.IsNaN(i) || math.IsInf(i, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite sample at index %d", ErrDataInsufficient, n)
		}
		s.I[n] = i
		s.V[n] = v
	}
	return s, nil
}

// Len returns the number of samples.
func (s *Sweep) Len() int { return len(s.I) }
