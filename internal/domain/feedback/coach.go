package feedback

import (
	"fmt"
	"strings"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

const (
	tightDefenderFt      = 3.0
	contestedThreeFt     = 6.0
	lateClockSeconds     = 4
	poorLocationFt       = 8.0
	lowPercentageMargin  = 0.08
	earlyClockSeconds    = 20
	earlyClockQuarterMax = 3

	someTimeSeconds  = 8
	lateQuarter      = 4
	earlyQuarterMax  = 2
	farDistanceFt    = 20.0
	closeDistanceFt  = 8.0
	maxContextPieces = 2

	handInFaceFt    = 2.0
	activeContestFt = 5.0

	wideMargin   = 0.08
	mediumMargin = 0.04

	highQualityMargin = 0.10
	rimDistanceFt     = 5.0
)

// Input is everything the text renderers need about one decision.
type Input struct {
	Decision    types.Decision
	Probability float64
	Threshold   float64
	Shot        model.Shot
}

// Generator renders coach feedback. It is safe for concurrent use when its
// Source is.
type Generator struct {
	src Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource injects the randomness source.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// NewGenerator creates a Generator backed by the default source.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{src: DefaultSource()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CoachFeedback returns short positive feedback for a TAKE and a detailed
// coach explanation for a PASS.
func (g *Generator) CoachFeedback(in Input) []string {
	if in.Decision == types.DecisionTake {
		return takeFeedback(in)
	}
	return g.passFeedback(in)
}

func takeFeedback(in Input) []string {
	margin := in.Probability - in.Threshold
	out := make([]string, 0, 3)
	switch {
	case in.Shot.DefenderDistance != nil && in.Shot.Contest == types.ContestWideOpen:
		out = append(out, "You're wide open this is a great look.")
	case margin >= highQualityMargin:
		out = append(out, "High-quality shot. Take it with confidence.")
	default:
		out = append(out, "Good look. Let it fly.")
	}

	switch {
	case in.Shot.Type.IsThree() && in.Shot.Zone.IsCorner():
		out = append(out, "Corner three is one of our best shots.")
	case in.Shot.Distance <= rimDistanceFt:
		out = append(out, "You're at the rim finish strong.")
	}

	out = append(out, fmt.Sprintf("Shot probability: %.1f%% (threshold: %.1f%%, margin: +%.1f%%)",
		in.Probability*100, in.Threshold*100, margin*100))
	return out
}

func (g *Generator) passFeedback(in Input) []string {
	reason := ClassifyPass(in)
	context := strings.Join(sample(g.src, contextSnippets(in.Shot), maxContextPieces), " ")
	main := collapseSpaces(fmt.Sprintf(pick(g.src, passTemplates[reason]), context))

	out := make([]string, 0, 4)
	if in.Shot.DefenderDistance != nil && in.Shot.Contest != types.ContestNone {
		if insight := g.defenderInsight(*in.Shot.DefenderDistance, in.Shot.Contest); insight != "" {
			out = append(out, insight)
		}
	}
	out = append(out, main, g.qualityInsight(in.Threshold-in.Probability))

	margin := in.Threshold - in.Probability
	out = append(out, fmt.Sprintf("Shot probability: %.1f%% (threshold: %.1f%%, margin: %.1f%%)",
		in.Probability*100, in.Threshold*100, margin*100))
	return out
}

// ClassifyPass picks the dominant reason for a PASS; the first match wins.
func ClassifyPass(in Input) PassReason {
	s := in.Shot
	hasDefender := s.HasDefender()
	if s.Contest == types.ContestTight || (hasDefender && *s.DefenderDistance <= tightDefenderFt) {
		return ReasonTightDefense
	}
	if (s.Contest == types.ContestContested || s.Contest == types.ContestTight) &&
		s.Type.IsThree() && hasDefender && *s.DefenderDistance <= contestedThreeFt {
		return ReasonContestedThree
	}
	if s.TimeRemaining <= lateClockSeconds {
		return ReasonLateClock
	}
	if (s.Zone == types.ZoneMidRange || s.Zone == types.ZonePaintNonRA) && s.Distance > poorLocationFt {
		return ReasonPoorLocation
	}
	if in.Probability < in.Threshold-lowPercentageMargin {
		return ReasonLowPercentage
	}
	if s.TimeRemaining > earlyClockSeconds && s.Quarter <= earlyClockQuarterMax {
		return ReasonEarlyClock
	}
	return ReasonMarginal
}

func contextSnippets(s model.Shot) []string {
	var parts []string
	switch {
	case s.TimeRemaining > earlyClockSeconds:
		parts = append(parts, snippetTimePlenty)
	case s.TimeRemaining > someTimeSeconds:
		parts = append(parts, snippetTimeSome)
	case s.TimeRemaining <= lateClockSeconds:
		parts = append(parts, snippetTimeLow)
	}

	switch {
	case s.Quarter >= lateQuarter:
		parts = append(parts, snippetQuarterLate)
	case s.Quarter <= earlyQuarterMax:
		parts = append(parts, snippetQuarterEarly)
	}

	if s.DefenderDistance != nil {
		switch s.Contest {
		case types.ContestContested:
			parts = append(parts, snippetDefenderContest)
		case types.ContestTight:
			parts = append(parts, snippetDefenderTight)
		}
	}

	switch {
	case s.Distance >= farDistanceFt:
		parts = append(parts, snippetDistanceFar)
	case s.Distance <= closeDistanceFt:
		parts = append(parts, snippetDistanceClose)
	}
	return parts
}

func (g *Generator) defenderInsight(distance float64, level types.ContestLevel) string {
	switch {
	case level == types.ContestTight && distance <= handInFaceFt:
		return fmt.Sprintf(pick(g.src, tightDefenderInsights), distance)
	case level == types.ContestContested && distance <= activeContestFt:
		return fmt.Sprintf(pick(g.src, contestDefenderInsights), distance)
	}
	return ""
}

func (g *Generator) qualityInsight(margin float64) string {
	switch {
	case margin >= wideMargin:
		return pick(g.src, wideMarginInsights)
	case margin >= mediumMargin:
		return pick(g.src, mediumMarginInsights)
	default:
		return pick(g.src, narrowMarginInsights)
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
