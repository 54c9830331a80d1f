// Package advisor turns an adjusted make probability into a TAKE SHOT / PASS
// decision using context-dependent thresholds.
package advisor

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

const (
	percentScale        = 100.0
	longRangeFt         = 25.0
	closeRangeFt        = 5.0
	windingDownSeconds  = 10
	regulationQuarters  = 4
	lateGameQuarter     = 4
	defaultLateClockSec = 5
)

// Thresholds is the immutable threshold table.
type Thresholds struct {
	Base             float64
	ByShotType       map[types.ShotType]float64
	ByZone           map[types.Zone]float64
	LateClockSeconds int
	LateClock        float64
	OvertimeFactor   float64
}

// DefaultThresholds returns the standard table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Base: 0.45,
		ByShotType: map[types.ShotType]float64{
			types.ThreePoint: 0.35,
			types.TwoPoint:   0.50,
		},
		ByZone: map[types.Zone]float64{
			types.ZoneRestrictedArea: 0.40,
			types.ZonePaintNonRA:     0.45,
			types.ZoneMidRange:       0.55,
			types.ZoneAboveBreak3:    0.35,
			types.ZoneLeftCorner3:    0.35,
			types.ZoneRightCorner3:   0.35,
			types.ZoneLeftSide3:      0.35,
			types.ZoneRightSide3:     0.35,
		},
		LateClockSeconds: defaultLateClockSec,
		LateClock:        0.30,
		OvertimeFactor:   0.95,
	}
}

// Advisor computes thresholds and decisions.
type Advisor struct {
	t Thresholds
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithThresholds replaces the threshold table.
func WithThresholds(t Thresholds) Option {
	return func(a *Advisor) {
		if t.Base > 0 && t.Base < 1 {
			a.t = t
		}
	}
}

// New creates an Advisor with the default table unless overridden.
func New(opts ...Option) *Advisor {
	a := &Advisor{t: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the minimum make probability required to take the shot.
// Shot type sets the value, zone and late clock can only lower it, and
// overtime scales it last.
func (a *Advisor) Threshold(shotType types.ShotType, zone types.Zone, timeRemaining, quarter int) float64 {
	th := a.t.Base
	if v, ok := a.t.ByShotType[shotType]; ok {
		th = v
	}
	if v, ok := a.t.ByZone[zone]; ok {
		th = math.Min(th, v)
	}
	if timeRemaining <= a.t.LateClockSeconds {
		th = math.Min(th, a.t.LateClock)
	}
	if quarter > regulationQuarters {
		th *= a.t.OvertimeFactor
	}
	return th
}

// Advise applies the decision rule: TAKE SHOT iff p >= threshold.
func (a *Advisor) Advise(p float64, shot model.Shot) model.Decision {
	th := a.Threshold(shot.Type, shot.Zone, shot.TimeRemaining, shot.Quarter)
	label := types.DecisionPass
	if p >= th {
		label = types.DecisionTake
	}
	return model.Decision{
		Label:      label,
		Threshold:  th,
		Confidence: math.Abs(p - th),
		Rationale:  a.Rationale(p, th, shot),
	}
}

// Rationale describes the context that framed the decision. It never
// influences the decision itself.
func (a *Advisor) Rationale(p, threshold float64, shot model.Shot) []string {
	out := make([]string, 0, 6)
	verb := "below"
	if p >= threshold {
		verb = "exceeds"
	}
	out = append(out, fmt.Sprintf("Shot make probability (%.1f%%) %s threshold (%.1f%%)",
		p*percentScale, verb, threshold*percentScale))

	switch shot.Type {
	case types.ThreePoint:
		out = append(out, "3-point shots are valuable - lower threshold applied")
	case types.TwoPoint:
		out = append(out, "2-point shots require higher efficiency")
	}

	zone := string(shot.Zone)
	switch {
	case shot.Zone.IsPaint():
		out = append(out, "High-value shot location near the basket")
	case strings.Contains(zone, "3"):
		out = append(out, "3-point zone - efficient shot if open")
	case strings.Contains(zone, string(types.ZoneMidRange)):
		out = append(out, "Mid-range shots are less efficient - higher bar")
	}

	switch {
	case shot.Distance >= longRangeFt:
		out = append(out, fmt.Sprintf("Long-range shot (%.0f ft) - lower expected efficiency", shot.Distance))
	case shot.Distance <= closeRangeFt:
		out = append(out, fmt.Sprintf("Close-range shot (%.0f ft) - high-value opportunity", shot.Distance))
	}

	switch {
	case shot.TimeRemaining <= a.t.LateClockSeconds:
		out = append(out, "Late clock situation - take available shots")
	case shot.TimeRemaining <= windingDownSeconds:
		out = append(out, "Clock winding down - consider shot quality")
	}

	if shot.Quarter >= lateGameQuarter {
		out = append(out, "Late game - shot selection becomes critical")
	}
	return out
}
