// Package defense models how defender proximity and contest quality reduce
// a shot's make probability.
package defense

import (
	"fmt"
	"math"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Default model parameters.
const (
	DefaultMaxPenalty = 0.35 // reduction with a hand in the face (0 ft)
	DefaultDecayRate  = 0.25 // exponential decay per foot

	minDecay          = 0.65
	maxDecay          = 1.0
	fallbackContest   = 0.97
	percentScale      = 100.0
	tightDistanceFt   = 3.0
	contestDistanceFt = 6.0
	openDistanceFt    = 10.0
)

// DefaultContestMultipliers returns the contest multiplier table.
func DefaultContestMultipliers() map[types.ContestLevel]float64 {
	return map[types.ContestLevel]float64{
		types.ContestTight:     0.85,
		types.ContestContested: 0.92,
		types.ContestOpen:      0.97,
		types.ContestWideOpen:  1.00,
	}
}

// Model combines an exponential distance decay with a discrete contest multiplier.
// A Model is immutable after construction and safe for concurrent use.
type Model struct {
	maxPenalty  float64
	decayRate   float64
	multipliers map[types.ContestLevel]float64
}

// NewModel creates a defender impact model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		maxPenalty:  DefaultMaxPenalty,
		decayRate:   DefaultDecayRate,
		multipliers: DefaultContestMultipliers(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DistanceDecay returns 1 - maxPenalty*e^(-rate*d) clamped to [0.65, 1].
// Absent or negative distances carry no penalty.
func (m *Model) DistanceDecay(distance *float64) float64 {
	if distance == nil || *distance < 0 || math.IsNaN(*distance) {
		return maxDecay
	}
	decay := 1.0 - m.maxPenalty*math.Exp(-m.decayRate**distance)
	return clamp(decay, minDecay, maxDecay)
}

// ContestMultiplier returns the table value for level; unknown or absent
// levels are treated as OPEN.
func (m *Model) ContestMultiplier(level types.ContestLevel) float64 {
	if v, ok := m.multipliers[level]; ok {
		return v
	}
	return fallbackContest
}

// Impact computes the full breakdown. With neither a distance nor a contest
// level there is nothing to adjust and the neutral breakdown is returned.
func (m *Model) Impact(distance *float64, level types.ContestLevel) model.DefenderImpact {
	if distance == nil && level == types.ContestNone {
		return model.NeutralImpact()
	}
	decay := m.DistanceDecay(distance)
	mult := m.ContestMultiplier(level)
	impact := decay * mult
	return model.DefenderImpact{
		ImpactFactor:         impact,
		DistanceDecay:        decay,
		ContestMultiplier:    mult,
		PercentageAdjustment: (impact - 1.0) * percentScale,
	}
}

// Apply adjusts base by the defender impact and clamps the result to [0, 1].
func (m *Model) Apply(base float64, distance *float64, level types.ContestLevel) model.ProbabilityAssessment {
	impact := m.Impact(distance, level)
	return model.ProbabilityAssessment{
		BaseProbability:     base,
		AdjustedProbability: clamp(base*impact.ImpactFactor, 0, 1),
		Impact:              impact,
	}
}

// Explain renders a one-line description of the defender effect.
func (m *Model) Explain(distance *float64, level types.ContestLevel, impact model.DefenderImpact) string {
	if distance == nil {
		return "No defender data available - using base probability"
	}
	d := *distance
	var distanceDesc string
	switch {
	case d <= tightDistanceFt:
		distanceDesc = "tight closeout"
	case d <= contestDistanceFt:
		distanceDesc = "contested"
	case d <= openDistanceFt:
		distanceDesc = "open look"
	default:
		distanceDesc = "wide-open"
	}
	return fmt.Sprintf("Defender at %.1f ft (%s) with %s adjusts probability by %+.1f percentage points",
		d, distanceDesc, contestDescription(level), impact.PercentageAdjustment)
}

func contestDescription(level types.ContestLevel) string {
	switch level {
	case types.ContestTight:
		return "active hand contest"
	case types.ContestContested:
		return "moderate pressure"
	case types.ContestOpen:
		return "late rotation"
	case types.ContestWideOpen:
		return "no real contest"
	default:
		return "standard defense"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
