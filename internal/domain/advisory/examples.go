package advisory

import (
	"fmt"
	"math"

	"github.com/okian/shotcall/internal/domain/feedback"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Scenario is a canned shot used by the demo endpoints and the CLI.
type Scenario struct {
	Name             string
	Decision         types.Decision
	Probability      float64
	Threshold        float64
	ShotType         types.ShotType
	Zone             types.Zone
	Distance         float64
	TimeRemaining    int
	Quarter          int
	DefenderDistance float64
	Contest          types.ContestLevel
	Action           string
}

// Shot returns the scenario as a shot context.
func (s Scenario) Shot() model.Shot {
	d := s.DefenderDistance
	return model.Shot{
		Distance:         s.Distance,
		Type:             s.ShotType,
		Zone:             s.Zone,
		Quarter:          s.Quarter,
		TimeRemaining:    s.TimeRemaining,
		Position:         "PG",
		DefenderDistance: &d,
		Contest:          s.Contest,
	}
}

// ScenarioContext is the human readable summary of a scenario.
type ScenarioContext struct {
	Shot            string `json:"shot"`
	Distance        string `json:"distance"`
	Defender        string `json:"defender"`
	Time            string `json:"time"`
	MakeProbability string `json:"make_probability,omitempty"`
	Threshold       string `json:"threshold,omitempty"`
	Gap             string `json:"gap,omitempty"`
}

func (s Scenario) context(timeSuffix string) ScenarioContext {
	return ScenarioContext{
		Shot:     fmt.Sprintf("%s from %s", s.ShotType, s.Zone),
		Distance: fmt.Sprintf("%.1f ft", s.Distance),
		Defender: fmt.Sprintf("%.1f ft away (%s)", s.DefenderDistance, s.Contest),
		Time:     fmt.Sprintf("Q%d, %ds %s", s.Quarter, s.TimeRemaining, timeSuffix),
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// DefenderCase is one row of the defender impact demonstration.
type DefenderCase struct {
	Scenario             string        `json:"scenario"`
	DistanceFt           float64       `json:"distance_ft"`
	ContestLevel         string        `json:"contest_level"`
	ImpactFactor         float64       `json:"impact_factor"`
	PercentageAdjustment float64       `json:"percentage_adjustment"`
	Example              ExampleEffect `json:"example_40pct_shot"`
	Explanation          string        `json:"explanation"`
}

// ExampleEffect shows the impact on a 40% shot.
type ExampleEffect struct {
	Base     string `json:"base"`
	Adjusted string `json:"adjusted"`
	Change   string `json:"change"`
}

var defenderCases = []struct {
	distance float64
	contest  types.ContestLevel
	label    string
}{
	{0, types.ContestTight, "Hand-in-face (worst case)"},
	{2.5, types.ContestTight, "Tight closeout on 3PT"},
	{5, types.ContestContested, "Active contest"},
	{8, types.ContestOpen, "Late rotation"},
	{15, types.ContestWideOpen, "Wide-open shot"},
}

const demoBase = 0.40

// DefenderDemo computes the impact of five representative closeouts on a 40% shot.
func (e *Engine) DefenderDemo() []DefenderCase {
	out := make([]DefenderCase, 0, len(defenderCases))
	for _, c := range defenderCases {
		d := c.distance
		impact := e.defense.Impact(&d, c.contest)
		adjusted := e.defense.Apply(demoBase, &d, c.contest).AdjustedProbability
		out = append(out, DefenderCase{
			Scenario:             c.label,
			DistanceFt:           c.distance,
			ContestLevel:         string(c.contest),
			ImpactFactor:         roundTo(impact.ImpactFactor, 3),
			PercentageAdjustment: roundTo(impact.PercentageAdjustment, 1),
			Example: ExampleEffect{
				Base:     percent(demoBase),
				Adjusted: percent(adjusted),
				Change:   fmt.Sprintf("%+.1f pp", (adjusted-demoBase)*100),
			},
			Explanation: e.defense.Explain(&d, c.contest, impact),
		})
	}
	return out
}

// FeedbackExample is a rendered coach feedback scenario.
type FeedbackExample struct {
	Scenario      string            `json:"scenario"`
	Decision      types.Decision    `json:"decision"`
	Context       ScenarioContext   `json:"context"`
	Probabilities map[string]string `json:"probabilities"`
	CoachFeedback []string          `json:"coach_feedback"`
}

// FeedbackScenarios are the canned coach feedback cases.
var FeedbackScenarios = []Scenario{
	{Name: "Tight Defense on Three", Decision: types.DecisionPass, Probability: 0.26, Threshold: 0.35, ShotType: types.ThreePoint, Zone: types.ZoneAboveBreak3, Distance: 24.5, TimeRemaining: 14, Quarter: 2, DefenderDistance: 1.8, Contest: types.ContestTight},
	{Name: "Contested Corner Three", Decision: types.DecisionPass, Probability: 0.31, Threshold: 0.38, ShotType: types.ThreePoint, Zone: types.ZoneRightCorner3, Distance: 23.2, TimeRemaining: 18, Quarter: 3, DefenderDistance: 4.5, Contest: types.ContestContested},
	{Name: "Poor Mid-Range Location", Decision: types.DecisionPass, Probability: 0.33, Threshold: 0.41, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 17.0, TimeRemaining: 22, Quarter: 1, DefenderDistance: 8.5, Contest: types.ContestOpen},
	{Name: "Late Clock Forced Shot", Decision: types.DecisionPass, Probability: 0.29, Threshold: 0.36, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 15.0, TimeRemaining: 3, Quarter: 4, DefenderDistance: 6.0, Contest: types.ContestContested},
	{Name: "Wide Open Corner (TAKE)", Decision: types.DecisionTake, Probability: 0.47, Threshold: 0.35, ShotType: types.ThreePoint, Zone: types.ZoneLeftCorner3, Distance: 23.0, TimeRemaining: 16, Quarter: 3, DefenderDistance: 13.0, Contest: types.ContestWideOpen},
}

// FeedbackExamples renders coach feedback for each feedback scenario.
func (e *Engine) FeedbackExamples() []FeedbackExample {
	out := make([]FeedbackExample, 0, len(FeedbackScenarios))
	for _, s := range FeedbackScenarios {
		in := feedback.Input{Decision: s.Decision, Probability: s.Probability, Threshold: s.Threshold, Shot: s.Shot()}
		out = append(out, FeedbackExample{
			Scenario: s.Name,
			Decision: s.Decision,
			Context:  s.context("left"),
			Probabilities: map[string]string{
				"make_probability": percent(s.Probability),
				"threshold":        percent(s.Threshold),
			},
			CoachFeedback: e.feedback.Render(types.ModeFeedback, in),
		})
	}
	return out
}

// ActionExample is a rendered action recommendation scenario.
type ActionExample struct {
	Scenario       string                     `json:"scenario"`
	Context        ScenarioContext            `json:"context"`
	Recommendation model.ActionRecommendation `json:"recommendation"`
}

// ActionScenarios are the canned PASS situations for the action recommender.
var ActionScenarios = []Scenario{
	{Name: "Tight Contest on Three - Good Zone", Probability: 0.28, ShotType: types.ThreePoint, Zone: types.ZoneRightCorner3, Distance: 23.5, TimeRemaining: 14, Quarter: 2, DefenderDistance: 2.2, Contest: types.ContestTight},
	{Name: "Heavily Contested Mid-Range", Probability: 0.32, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 16.0, TimeRemaining: 12, Quarter: 3, DefenderDistance: 4.8, Contest: types.ContestContested},
	{Name: "Poor Long-Range Shot", Probability: 0.25, ShotType: types.ThreePoint, Zone: types.ZoneAboveBreak3, Distance: 27.5, TimeRemaining: 18, Quarter: 1, DefenderDistance: 7.5, Contest: types.ContestOpen},
	{Name: "Late Clock Situation", Probability: 0.31, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 15.0, TimeRemaining: 3, Quarter: 4, DefenderDistance: 5.5, Contest: types.ContestContested},
	{Name: "Marginal Quality - Time Available", Probability: 0.34, ShotType: types.ThreePoint, Zone: types.ZoneAboveBreak3, Distance: 24.0, TimeRemaining: 20, Quarter: 2, DefenderDistance: 9.0, Contest: types.ContestOpen},
}

// ActionExamples runs the action recommender over each action scenario.
func (e *Engine) ActionExamples() []ActionExample {
	out := make([]ActionExample, 0, len(ActionScenarios))
	for _, s := range ActionScenarios {
		ctx := s.context("remaining")
		ctx.MakeProbability = percent(s.Probability)
		out = append(out, ActionExample{
			Scenario:       s.Name,
			Context:        ctx,
			Recommendation: e.recommender.Recommend(s.Probability, s.Shot()),
		})
	}
	return out
}

// ConfidenceExample is a rendered action confidence scenario.
type ConfidenceExample struct {
	Scenario   string                 `json:"scenario"`
	Context    ScenarioContext        `json:"context"`
	Action     string                 `json:"action"`
	Confidence ConfidenceExampleScore `json:"confidence"`
}

// ConfidenceExampleScore mirrors model.ActionConfidence with short keys.
type ConfidenceExampleScore struct {
	Score     float64                 `json:"score"`
	Level     types.ConfidenceLevel   `json:"level"`
	Reasoning string                  `json:"reasoning"`
	Factors   model.ConfidenceFactors `json:"factors"`
}

// ConfidenceScenarios are the canned PASS cases for confidence scoring.
var ConfidenceScenarios = []Scenario{
	{Name: "Very Clear PASS - Tight Contest on Deep Three", Decision: types.DecisionPass, Probability: 0.24, Threshold: 0.35, ShotType: types.ThreePoint, Zone: types.ZoneAboveBreak3, Distance: 28.0, TimeRemaining: 16, Quarter: 2, DefenderDistance: 2.0, Contest: types.ContestTight, Action: string(types.ActionSwingPass)},
	{Name: "Clear PASS - Contested Mid-Range", Decision: types.DecisionPass, Probability: 0.31, Threshold: 0.41, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 17.0, TimeRemaining: 14, Quarter: 3, DefenderDistance: 5.0, Contest: types.ContestContested, Action: "Drive or Kick"},
	{Name: "Marginal PASS - Late Clock Pressure", Decision: types.DecisionPass, Probability: 0.36, Threshold: 0.40, ShotType: types.TwoPoint, Zone: types.ZoneMidRange, Distance: 15.0, TimeRemaining: 3, Quarter: 4, DefenderDistance: 6.0, Contest: types.ContestContested, Action: string(types.ActionBestAvailable)},
	{Name: "Uncertain PASS - Clutch Situation", Decision: types.DecisionPass, Probability: 0.34, Threshold: 0.39, ShotType: types.ThreePoint, Zone: types.ZoneRightCorner3, Distance: 23.5, TimeRemaining: 90, Quarter: 4, DefenderDistance: 7.0, Contest: types.ContestOpen, Action: "Reset Offense"},
	{Name: "Moderate PASS - Good Zone But Open", Decision: types.DecisionPass, Probability: 0.33, Threshold: 0.38, ShotType: types.ThreePoint, Zone: types.ZoneLeftCorner3, Distance: 23.0, TimeRemaining: 18, Quarter: 2, DefenderDistance: 9.0, Contest: types.ContestOpen, Action: string(types.ActionRelocate)},
}

// ConfidenceExamples scores each confidence scenario.
func (e *Engine) ConfidenceExamples() []ConfidenceExample {
	out := make([]ConfidenceExample, 0, len(ConfidenceScenarios))
	for _, s := range ConfidenceScenarios {
		ctx := s.context("remaining")
		ctx.MakeProbability = percent(s.Probability)
		ctx.Threshold = percent(s.Threshold)
		ctx.Gap = percent(math.Abs(s.Probability - s.Threshold))
		conf := e.confidence.Compute(s.Probability, s.Threshold, s.Decision, s.Shot())
		out = append(out, ConfidenceExample{
			Scenario: s.Name,
			Context:  ctx,
			Action:   s.Action,
			Confidence: ConfidenceExampleScore{
				Score:     conf.Score,
				Level:     conf.Level,
				Reasoning: conf.Reasoning,
				Factors:   conf.Factors,
			},
		})
	}
	return out
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
