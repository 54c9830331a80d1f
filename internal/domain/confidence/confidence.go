// Package confidence scores how sure the advisory is about its recommended
// action, from the probability/threshold gap and situational adjustments.
package confidence

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Adjustment tags reported in ConfidenceFactors.ActiveAdjustments.
const (
	TagTightContest        = "tight_contest"
	TagContestedShot       = "contested_shot"
	TagLateClock           = "late_clock_pressure"
	TagModerateTime        = "moderate_time_pressure"
	TagDeepThree           = "deep_three_attempt"
	TagInefficientMidrange = "inefficient_midrange"
	TagDifficultAngle      = "difficult_angle"
	TagClutch              = "clutch_situation"
)

const (
	minScore = 0.15
	maxScore = 0.95

	veryHighLevel = 0.75
	highLevel     = 0.60
	moderateLevel = 0.45

	lateClockSeconds     = 5
	moderateClockSeconds = 10
	clutchQuarter        = 4
	clutchSeconds        = 120
	deepThreeFt          = 27.0
	longMidRangeFt       = 15.0
	difficultAngleFt     = 25.0
)

type gapBand struct {
	minGap     float64
	confidence float64
	phrase     string
}

// bands are ordered from the widest gap down; the last band catches everything.
var bands = []gapBand{
	{0.15, 0.85, "well"},
	{0.10, 0.70, "clearly"},
	{0.05, 0.55, "moderately"},
	{0, 0.40, "marginally"},
}

type adjustment struct {
	tag   string
	delta float64
}

// Calculator computes action confidence. It holds no state.
type Calculator struct{}

// NewCalculator creates a Calculator.
func NewCalculator() *Calculator { return &Calculator{} }

// Compute scores the decision for shot given the adjusted probability and
// threshold.
func (c *Calculator) Compute(prob, threshold float64, decision types.Decision, shot model.Shot) model.ActionConfidence {
	gap := math.Abs(prob - threshold)
	band := bandFor(gap)

	adjustments := c.adjustments(decision, shot)
	total := 0.0
	tags := make([]string, 0, len(adjustments))
	for _, a := range adjustments {
		total += a.delta
		tags = append(tags, a.tag)
	}

	score := math.Min(maxScore, math.Max(minScore, band.confidence+total))

	return model.ActionConfidence{
		Score:     round(score, 2),
		Level:     Level(score),
		Reasoning: reasoning(decision, gap, band, tags),
		Factors: model.ConfidenceFactors{
			BaseConfidence:          round(band.confidence, 2),
			ProbabilityThresholdGap: round(gap, 3),
			TotalAdjustment:         round(total, 2),
			ActiveAdjustments:       tags,
		},
	}
}

func (c *Calculator) adjustments(decision types.Decision, shot model.Shot) []adjustment {
	var out []adjustment
	pass := decision == types.DecisionPass

	if pass {
		switch shot.Contest {
		case types.ContestTight:
			out = append(out, adjustment{TagTightContest, 0.10})
		case types.ContestContested:
			out = append(out, adjustment{TagContestedShot, 0.05})
		}
	}

	switch {
	case shot.TimeRemaining <= lateClockSeconds:
		out = append(out, adjustment{TagLateClock, -0.10})
	case shot.TimeRemaining <= moderateClockSeconds:
		out = append(out, adjustment{TagModerateTime, -0.05})
	}

	// Location adjustments do not stack; the first match wins.
	if pass {
		switch {
		case shot.Type == types.ThreePoint && shot.Distance >= deepThreeFt:
			out = append(out, adjustment{TagDeepThree, 0.08})
		case shot.Type == types.TwoPoint && shot.Zone == types.ZoneMidRange && shot.Distance >= longMidRangeFt:
			out = append(out, adjustment{TagInefficientMidrange, 0.06})
		case shot.Type == types.ThreePoint && shot.Zone == types.ZoneAboveBreak3 && shot.Distance >= difficultAngleFt:
			out = append(out, adjustment{TagDifficultAngle, 0.07})
		}
	}

	if shot.Quarter >= clutchQuarter && shot.TimeRemaining <= clutchSeconds {
		out = append(out, adjustment{TagClutch, -0.08})
	}
	return out
}

// Level labels a score.
func Level(score float64) types.ConfidenceLevel {
	switch {
	case score >= veryHighLevel:
		return types.ConfidenceVeryHigh
	case score >= highLevel:
		return types.ConfidenceHigh
	case score >= moderateLevel:
		return types.ConfidenceModerate
	default:
		return types.ConfidenceLow
	}
}

func bandFor(gap float64) gapBand {
	for _, b := range bands {
		if gap >= b.minGap {
			return b
		}
	}
	return bands[len(bands)-1]
}

func reasoning(decision types.Decision, gap float64, band gapBand, tags []string) string {
	if decision != types.DecisionPass {
		return fmt.Sprintf("The shot exceeds the efficiency threshold by %.1f%%, indicating a good scoring opportunity.", gap*100)
	}

	has := func(tag string) bool {
		for _, t := range tags {
			if t == tag {
				return true
			}
		}
		return false
	}

	parts := []string{fmt.Sprintf("The shot is %s below the efficiency threshold", band.phrase)}
	switch {
	case has(TagTightContest):
		parts = append(parts, "tightly contested")
	case has(TagContestedShot):
		parts = append(parts, "actively contested")
	}
	switch {
	case has(TagDeepThree):
		parts = append(parts, "from deep 3-point range")
	case has(TagInefficientMidrange):
		parts = append(parts, "from inefficient mid-range area")
	case has(TagDifficultAngle):
		parts = append(parts, "from a difficult angle")
	}
	switch {
	case has(TagLateClock):
		parts = append(parts, "though shot clock pressure limits alternatives")
	case has(TagClutch):
		parts = append(parts, "in a clutch situation with uncertainty")
	}

	// With two or fewer clauses only the headline is used.
	if len(parts) <= 2 {
		return parts[0] + ", making this a clear passing decision."
	}
	last := len(parts) - 1
	return strings.Join(parts[:last], ", ") + ", and " + parts[last] + "."
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
