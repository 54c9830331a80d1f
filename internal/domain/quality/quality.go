// Package quality decomposes a shot into additive, human-readable quality
// components. The components explain the decision; they do not reconstruct
// the probability.
package quality

import (
	"fmt"

	"github.com/okian/shotcall/internal/domain/defense"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

const (
	baseline = 0.05

	restrictedAreaValue = 0.12
	cornerThreeValue    = 0.08
	paintValue          = 0.03
	shortMidRangeValue  = -0.05
	longMidRangeValue   = -0.10
	longMidRangeFt      = 16.0

	threePointValue = 0.08
	twoPointValue   = -0.02

	clutchValue        = -0.08
	clutchSeconds      = 120
	endOfPeriodValue   = -0.05
	endOfPeriodSeconds = 60
	earlyGameValue     = 0.03
	earlyGameSeconds   = 360
)

// Analyzer computes quality breakdowns.
type Analyzer struct {
	defense *defense.Model
}

// NewAnalyzer creates an Analyzer using d for the defensive pressure term.
// A nil model falls back to the default defender model.
func NewAnalyzer(d *defense.Model) *Analyzer {
	if d == nil {
		d = defense.NewModel()
	}
	return &Analyzer{defense: d}
}

// Breakdown returns the five components for shot.
func (a *Analyzer) Breakdown(shot model.Shot) model.QualityBreakdown {
	return model.QualityBreakdown{
		Baseline:          baseline,
		LocationQuality:   LocationQuality(shot.Zone, shot.Distance),
		ShotTypeValue:     ShotTypeValue(shot.Type),
		TimeContext:       TimeContext(shot.TimeRemaining, shot.Quarter),
		DefensivePressure: a.DefensivePressure(shot),
	}
}

// LocationQuality is the zone efficiency term.
func LocationQuality(zone types.Zone, distance float64) float64 {
	switch {
	case zone == types.ZoneRestrictedArea:
		return restrictedAreaValue
	case zone.IsCorner():
		return cornerThreeValue
	case zone == types.ZonePaintNonRA:
		return paintValue
	case zone == types.ZoneMidRange:
		if distance < longMidRangeFt {
			return shortMidRangeValue
		}
		return longMidRangeValue
	}
	return 0
}

// ShotTypeValue rewards three-point attempts.
func ShotTypeValue(st types.ShotType) float64 {
	if st.IsThree() {
		return threePointValue
	}
	return twoPointValue
}

// TimeContext is the game-situation term; the first matching rule wins.
func TimeContext(timeRemaining, quarter int) float64 {
	switch {
	case quarter >= 4 && timeRemaining < clutchSeconds:
		return clutchValue
	case timeRemaining < endOfPeriodSeconds:
		return endOfPeriodValue
	case quarter <= 2 && timeRemaining > earlyGameSeconds:
		return earlyGameValue
	}
	return 0
}

// DefensivePressure converts the multiplicative defender impact to an
// additive term. Without a defender distance it is zero.
func (a *Analyzer) DefensivePressure(shot model.Shot) float64 {
	if shot.DefenderDistance == nil {
		return 0
	}
	return a.defense.Impact(shot.DefenderDistance, shot.Contest).ImpactFactor - 1.0
}

// Component is one formatted breakdown line.
type Component struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormatForDisplay renders the breakdown as signed percentages in display order.
func FormatForDisplay(b model.QualityBreakdown) []Component {
	return []Component{
		{Name: "Base Ability", Value: signedPercent(b.Baseline)},
		{Name: "Location Quality", Value: signedPercent(b.LocationQuality)},
		{Name: "Shot Type Value", Value: signedPercent(b.ShotTypeValue)},
		{Name: "Time Context", Value: signedPercent(b.TimeContext)},
		{Name: "Defensive Pressure", Value: signedPercent(b.DefensivePressure)},
	}
}

func signedPercent(v float64) string {
	sign := ""
	if v >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, v*100)
}
