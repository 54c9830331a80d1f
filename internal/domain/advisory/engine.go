// Package advisory composes the rule chain: defender adjustment, threshold
// decision, quality breakdown, action recommendation, action confidence and
// explanation text.
package advisory

import (
	"math"

	"github.com/okian/shotcall/internal/domain/action"
	"github.com/okian/shotcall/internal/domain/advisor"
	"github.com/okian/shotcall/internal/domain/confidence"
	"github.com/okian/shotcall/internal/domain/defense"
	"github.com/okian/shotcall/internal/domain/feedback"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/quality"
	"github.com/okian/shotcall/internal/domain/types"
)

const reportPlaces = 4

// Engine runs the full advisory chain. It is safe for concurrent use.
type Engine struct {
	defense     *defense.Model
	advisor     *advisor.Advisor
	quality     *quality.Analyzer
	recommender *action.Recommender
	confidence  *confidence.Calculator
	feedback    *feedback.Generator
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefenseModel replaces the defender impact model.
func WithDefenseModel(m *defense.Model) Option {
	return func(e *Engine) {
		if m != nil {
			e.defense = m
		}
	}
}

// WithAdvisor replaces the threshold engine.
func WithAdvisor(a *advisor.Advisor) Option {
	return func(e *Engine) {
		if a != nil {
			e.advisor = a
		}
	}
}

// WithRecommender replaces the action recommender.
func WithRecommender(r *action.Recommender) Option {
	return func(e *Engine) {
		if r != nil {
			e.recommender = r
		}
	}
}

// WithFeedback replaces the feedback generator.
func WithFeedback(g *feedback.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.feedback = g
		}
	}
}

// NewEngine wires the default chain.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		defense:     defense.NewModel(),
		advisor:     advisor.New(),
		recommender: action.NewRecommender(),
		confidence:  confidence.NewCalculator(),
		feedback:    feedback.NewGenerator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.quality = quality.NewAnalyzer(e.defense)
	return e
}

// Defense exposes the defender model for demo and CLI rendering.
func (e *Engine) Defense() *defense.Model { return e.defense }

// Recommender exposes the action recommender.
func (e *Engine) Recommender() *action.Recommender { return e.recommender }

// Confidence exposes the action confidence calculator.
func (e *Engine) Confidence() *confidence.Calculator { return e.confidence }

// Feedback exposes the explanation generator.
func (e *Engine) Feedback() *feedback.Generator { return e.feedback }

// Evaluate produces the advice for shot given its base make probability.
func (e *Engine) Evaluate(base float64, shot model.Shot, mode types.ExplanationMode) model.Advice {
	assessment := e.defense.Apply(base, shot.DefenderDistance, shot.Contest)
	p := assessment.AdjustedProbability

	decision := e.advisor.Advise(p, shot)
	in := feedback.Input{
		Decision:    decision.Label,
		Probability: p,
		Threshold:   decision.Threshold,
		Shot:        shot,
	}

	advice := model.Advice{
		Decision:              decision.Label,
		MakeProbability:       round(p),
		BaseProbability:       round(base),
		Threshold:             round(decision.Threshold),
		Confidence:            round(decision.Confidence),
		Rationale:             decision.Rationale,
		ContestLevel:          shot.Contest,
		DefenderDistance:      shot.DefenderDistance,
		ShotQualityBreakdown:  e.quality.Breakdown(shot),
		DefenderImpactDetails: assessment.Impact,
		DefenderExplanation:   e.defense.Explain(shot.DefenderDistance, shot.Contest, assessment.Impact),
	}

	if decision.Label == types.DecisionPass {
		rec := e.recommender.Recommend(p, shot)
		conf := e.confidence.Compute(p, decision.Threshold, decision.Label, shot)
		advice.RecommendedAction = rec.Action
		advice.ActionReasoning = rec.Reasoning
		advice.PrimaryReason = rec.PrimaryReason
		advice.ActionConfidence = &conf.Score
		advice.ConfidenceLevel = conf.Level
		advice.ConfidenceReasoning = conf.Reasoning
		advice.ConfidenceFactors = &conf.Factors
	}

	advice.Explanation = e.feedback.Render(mode, in)
	advice.CoachingInsight = feedback.CoachingInsight(in, advice.RecommendedAction)
	return advice
}

// Threshold exposes the threshold engine for callers that only need the bar.
func (e *Engine) Threshold(shot model.Shot) float64 {
	return e.advisor.Threshold(shot.Type, shot.Zone, shot.TimeRemaining, shot.Quarter)
}

func round(v float64) float64 {
	scale := math.Pow(10, reportPlaces)
	return math.Round(v*scale) / scale
}
