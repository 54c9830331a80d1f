package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/shotcall/internal/domain/defense"
	"github.com/okian/shotcall/internal/domain/types"
)

const defaultDemoBase = 0.40

// handleDefenderDemo handles GET /defender-impact-demo.
func (s *Server) handleDefenderDemo(w http.ResponseWriter, _ *http.Request) {
	mult := defense.DefaultContestMultipliers()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Defender Impact Model Demonstration",
		"model_parameters": map[string]any{
			"max_penalty": fmt.Sprintf("%.0f%% (at 0 ft)", defense.DefaultMaxPenalty*100),
			"decay_rate":  fmt.Sprintf("%.2f (exponential)", defense.DefaultDecayRate),
			"contest_multipliers": map[string]string{
				string(types.ContestTight):     fmt.Sprintf("%.2f", mult[types.ContestTight]),
				string(types.ContestContested): fmt.Sprintf("%.2f", mult[types.ContestContested]),
				string(types.ContestOpen):      fmt.Sprintf("%.2f", mult[types.ContestOpen]),
				string(types.ContestWideOpen):  fmt.Sprintf("%.2f", mult[types.ContestWideOpen]),
			},
		},
		"test_cases": s.deps.Engine().DefenderDemo(),
	})
}

// handleDefenderImpact handles GET /defender-impact?distance=&contest=&base=.
func (s *Server) handleDefenderImpact(w http.ResponseWriter, r *http.Request) {
	const op = "api.defender_impact"
	q := r.URL.Query()

	var distance *float64
	if raw := q.Get("distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.fail(w, r, op, WrapKind(op, ErrBadRequest, fmt.Errorf("distance: %w", err)))
			return
		}
		distance = &d
	}

	base := defaultDemoBase
	if raw := q.Get("base"); raw != "" {
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil || b < 0 || b > 1 {
			s.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("base must be a probability in [0,1]")))
			return
		}
		base = b
	}

	contest := types.ParseContestLevel(q.Get("contest"))
	dm := s.deps.Engine().Defense()
	assessment := dm.Apply(base, distance, contest)

	writeJSON(w, http.StatusOK, map[string]any{
		"distance_ft":          distance,
		"contest_level":        contest,
		"base_probability":     base,
		"adjusted_probability": assessment.AdjustedProbability,
		"impact_breakdown":     assessment.Impact,
		"explanation":          dm.Explain(distance, contest, assessment.Impact),
	})
}

// handleFeedbackExamples handles GET /feedback-examples.
func (s *Server) handleFeedbackExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Coach Feedback System Examples",
		"description": "Natural language explanations for shot decisions",
		"scenarios":   s.deps.Engine().FeedbackExamples(),
	})
}

// handleActionExamples handles GET /action-examples.
func (s *Server) handleActionExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Action Recommendation System Examples",
		"description": "Basketball-intelligent next actions for PASS decisions",
		"scenarios":   s.deps.Engine().ActionExamples(),
	})
}

// handleConfidenceExamples handles GET /confidence-examples.
func (s *Server) handleConfidenceExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Action Confidence Scoring Examples",
		"description": "Explainable confidence assessments for recommended actions",
		"methodology": map[string]any{
			"base_calculation": "Probability-threshold gap determines base confidence",
			"adjustments": []string{
				"Tight defense → increases PASS confidence",
				"Late clock → decreases confidence (forced decisions)",
				"Poor shot locations → increases PASS confidence",
				"Clutch situations → decreases confidence (uncertainty)",
			},
			"confidence_levels": map[string]string{
				string(types.ConfidenceVeryHigh): "≥ 0.75",
				string(types.ConfidenceHigh):     "0.60 - 0.74",
				string(types.ConfidenceModerate): "0.45 - 0.59",
				string(types.ConfidenceLow):      "< 0.45",
			},
		},
		"scenarios": s.deps.Engine().ConfidenceExamples(),
	})
}
