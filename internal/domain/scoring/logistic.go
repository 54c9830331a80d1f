package scoring

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

const (
	lateClockSeconds = 24
	clutchSeconds    = 120
	regulationPeriod = 4
	minProbability   = 0.001
	maxProbability   = 0.999
)

// Coefficients are the weights of the logistic make-probability model.
// Action keys are matched case-insensitively as substrings of the action type.
type Coefficients struct {
	Intercept float64            `yaml:"intercept"`
	Distance  float64            `yaml:"distance"`
	LateClock float64            `yaml:"late_clock"`
	Clutch    float64            `yaml:"clutch"`
	Overtime  float64            `yaml:"overtime"`
	Zones     map[string]float64 `yaml:"zones"`
	Positions map[string]float64 `yaml:"positions"`
	Actions   map[string]float64 `yaml:"actions"`
}

// DefaultCoefficients returns coefficients fitted to league-average make rates.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Intercept: 0,
		Distance:  -0.01,
		LateClock: -0.10,
		Clutch:    -0.05,
		Overtime:  -0.03,
		Zones: map[string]float64{
			string(types.ZoneRestrictedArea): 0.55,
			string(types.ZonePaintNonRA):     -0.12,
			string(types.ZoneMidRange):       -0.20,
			string(types.ZoneLeftCorner3):    -0.28,
			string(types.ZoneRightCorner3):   -0.28,
			string(types.ZoneLeftSide3):      -0.34,
			string(types.ZoneRightSide3):     -0.34,
			string(types.ZoneAboveBreak3):    -0.35,
			string(types.ZoneBackcourt):      -3.50,
		},
		Positions: map[string]float64{
			"PG": 0,
			"SG": 0,
			"SF": 0.01,
			"PF": 0.03,
			"C":  0.05,
		},
		Actions: map[string]float64{
			"dunk":      1.20,
			"layup":     0.10,
			"pullup":    -0.08,
			"pull-up":   -0.08,
			"step back": -0.10,
			"fadeaway":  -0.12,
		},
	}
}

// LoadCoefficients reads a YAML model file. Keys missing from the file keep
// their default values.
func LoadCoefficients(path string) (Coefficients, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Coefficients{}, fmt.Errorf("read model file: %w", err)
	}
	c := DefaultCoefficients()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Coefficients{}, fmt.Errorf("parse model file %s: %w", path, err)
	}
	return c, nil
}

// Option configures a LogisticScorer.
type Option func(*LogisticScorer)

// WithCoefficients replaces the default coefficients.
func WithCoefficients(c Coefficients) Option {
	return func(s *LogisticScorer) {
		s.coef = c
	}
}

// WithZonePrior blends the model output with empirical per-zone make rates:
// p = (1-w)*model + w*rate. Weights outside (0,1] disable the prior.
func WithZonePrior(rates map[types.Zone]float64, weight float64) Option {
	return func(s *LogisticScorer) {
		if weight <= 0 || weight > 1 || len(rates) == 0 {
			return
		}
		s.prior = make(map[types.Zone]float64, len(rates))
		for z, r := range rates {
			s.prior[z] = r
		}
		s.priorWeight = weight
	}
}

// LogisticScorer implements Scorer with a fixed logistic regression.
type LogisticScorer struct {
	coef        Coefficients
	prior       map[types.Zone]float64
	priorWeight float64
}

// NewLogisticScorer creates a logistic scorer with default coefficients.
func NewLogisticScorer(opts ...Option) *LogisticScorer {
	s := &LogisticScorer{coef: DefaultCoefficients()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the base make probability for shot.
func (s *LogisticScorer) Score(ctx context.Context, shot model.Shot) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	p := sigmoid(s.Logit(shot))
	if rate, ok := s.prior[shot.Zone]; ok {
		p = (1-s.priorWeight)*p + s.priorWeight*rate
	}
	p = math.Max(minProbability, math.Min(maxProbability, p))
	return Result{Probability: p, Source: SourceLogistic}, nil
}

// Logit returns the linear predictor for shot.
func (s *LogisticScorer) Logit(shot model.Shot) float64 {
	z := s.coef.Intercept + s.coef.Distance*shot.Distance
	z += s.coef.Zones[string(shot.Zone)]
	z += s.coef.Positions[strings.ToUpper(shot.Position)]

	if shot.TimeRemaining <= lateClockSeconds {
		z += s.coef.LateClock
	}
	if shot.Quarter >= regulationPeriod && shot.TimeRemaining <= clutchSeconds {
		z += s.coef.Clutch
	}
	if shot.Quarter > regulationPeriod {
		z += s.coef.Overtime
	}

	if shot.ActionType != "" {
		action := strings.ToLower(shot.ActionType)
		best := 0.0
		for key, w := range s.coef.Actions {
			if strings.Contains(action, strings.ToLower(key)) && math.Abs(w) > math.Abs(best) {
				best = w
			}
		}
		z += best
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
