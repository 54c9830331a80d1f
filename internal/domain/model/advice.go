package model

import "github.com/okian/shotcall/internal/domain/types"

// DefenderImpact is the multiplicative defender adjustment breakdown.
type DefenderImpact struct {
	ImpactFactor         float64 `json:"impact_factor"`
	DistanceDecay        float64 `json:"distance_decay"`
	ContestMultiplier    float64 `json:"contest_multiplier"`
	PercentageAdjustment float64 `json:"percentage_adjustment"`
}

// NeutralImpact is the breakdown used when no defender data exists.
func NeutralImpact() DefenderImpact {
	return DefenderImpact{ImpactFactor: 1, DistanceDecay: 1, ContestMultiplier: 1}
}

// ProbabilityAssessment pairs the base and defender-adjusted probabilities.
type ProbabilityAssessment struct {
	BaseProbability     float64        `json:"base_probability"`
	AdjustedProbability float64        `json:"adjusted_probability"`
	Impact              DefenderImpact `json:"impact_breakdown"`
}

// QualityBreakdown holds the additive explanatory components of shot quality.
type QualityBreakdown struct {
	Baseline          float64 `json:"baseline"`
	LocationQuality   float64 `json:"location_quality"`
	ShotTypeValue     float64 `json:"shot_type_value"`
	TimeContext       float64 `json:"time_context"`
	DefensivePressure float64 `json:"defensive_pressure"`
}

// Decision is the thresholded shot recommendation.
type Decision struct {
	Label      types.Decision `json:"decision"`
	Threshold  float64        `json:"threshold"`
	Confidence float64        `json:"confidence"`
	Rationale  []string       `json:"rationale"`
}

// ActionRecommendation is produced for PASS decisions only.
type ActionRecommendation struct {
	Action        types.Action        `json:"action"`
	Reasoning     string              `json:"reasoning"`
	PrimaryReason types.PrimaryReason `json:"primary_reason"`
}

// ConfidenceFactors explains how an action confidence score was built.
type ConfidenceFactors struct {
	BaseConfidence          float64  `json:"base_confidence"`
	ProbabilityThresholdGap float64  `json:"probability_threshold_gap"`
	TotalAdjustment         float64  `json:"total_adjustment"`
	ActiveAdjustments       []string `json:"active_adjustments"`
}

// ActionConfidence scores a recommended action.
type ActionConfidence struct {
	Score     float64               `json:"action_confidence"`
	Level     types.ConfidenceLevel `json:"confidence_level"`
	Reasoning string                `json:"confidence_reasoning"`
	Factors   ConfidenceFactors     `json:"confidence_factors"`
}

// Advice is the complete result for one shot. Probabilities are rounded to
// four places after the decision is made, so a PASS can report a
// make_probability equal to its threshold.
type Advice struct {
	Decision              types.Decision        `json:"decision"`
	MakeProbability       float64               `json:"make_probability"`
	BaseProbability       float64               `json:"base_probability"`
	ProbabilitySource     string                `json:"probability_source,omitempty"`
	Threshold             float64               `json:"threshold"`
	Confidence            float64               `json:"confidence"`
	Explanation           []string              `json:"explanation"`
	Rationale             []string              `json:"rationale"`
	CoachingInsight       string                `json:"coaching_insight,omitempty"`
	ContestLevel          types.ContestLevel    `json:"contest_level,omitempty"`
	DefenderDistance      *float64              `json:"defender_distance,omitempty"`
	ShotQualityBreakdown  QualityBreakdown      `json:"shot_quality_breakdown"`
	DefenderImpactDetails DefenderImpact        `json:"defender_impact_details"`
	DefenderExplanation   string                `json:"defender_explanation"`
	RecommendedAction     types.Action          `json:"recommended_action,omitempty"`
	ActionReasoning       string                `json:"action_reasoning,omitempty"`
	PrimaryReason         types.PrimaryReason   `json:"primary_reason,omitempty"`
	ActionConfidence      *float64              `json:"action_confidence,omitempty"`
	ConfidenceLevel       types.ConfidenceLevel `json:"confidence_level,omitempty"`
	ConfidenceReasoning   string                `json:"confidence_reasoning,omitempty"`
	ConfidenceFactors     *ConfidenceFactors    `json:"confidence_factors,omitempty"`
}

// Margin returns make probability minus threshold.
func (a Advice) Margin() float64 {
	return a.MakeProbability - a.Threshold
}
