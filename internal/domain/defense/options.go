package defense

import "github.com/okian/shotcall/internal/domain/types"

// Option configures a Model.
type Option func(*Model)

// WithMaxPenalty sets the reduction applied at zero distance. Values outside
// (0, 1) are ignored.
func WithMaxPenalty(p float64) Option {
	return func(m *Model) {
		if p > 0 && p < 1 {
			m.maxPenalty = p
		}
	}
}

// WithDecayRate sets the per-foot exponential decay rate.
func WithDecayRate(rate float64) Option {
	return func(m *Model) {
		if rate > 0 {
			m.decayRate = rate
		}
	}
}

// WithContestMultipliers overrides entries of the contest table.
func WithContestMultipliers(table map[types.ContestLevel]float64) Option {
	return func(m *Model) {
		merged := DefaultContestMultipliers()
		for level, v := range table {
			if v > 0 && v <= 1 {
				merged[level] = v
			}
		}
		m.multipliers = merged
	}
}
