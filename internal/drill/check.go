package drill

import (
	"fmt"
	"math"

	"github.com/okian/shotcall/internal/domain/confidence"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

const (
	// Probabilities on the wire are rounded to 4 places.
	wireTolerance = 1.5e-4

	minActionConfidence = 0.15
	maxActionConfidence = 0.95
	// Action confidence is rounded to 2 places; the level is not.
	levelTolerance = 0.005
)

// Check returns a description of every invariant advice breaks for req.
// An empty result means the advice is consistent.
func Check(req model.ShotRequest, a model.Advice) []string {
	var out []string
	fail := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	if a.MakeProbability < 0 || a.MakeProbability > 1 {
		fail("make_probability %.4f outside [0,1]", a.MakeProbability)
	}
	if req.BaseProbability != nil && math.Abs(a.BaseProbability-*req.BaseProbability) > wireTolerance {
		fail("base_probability %.4f does not echo supplied %.4f", a.BaseProbability, *req.BaseProbability)
	}

	margin := a.Margin()
	switch a.Decision {
	case types.DecisionTake:
		if margin < -wireTolerance {
			fail("TAKE SHOT with make_probability %.4f below threshold %.4f", a.MakeProbability, a.Threshold)
		}
	case types.DecisionPass:
		if margin > wireTolerance {
			fail("PASS with make_probability %.4f above threshold %.4f", a.MakeProbability, a.Threshold)
		}
	default:
		fail("unknown decision %q", a.Decision)
	}
	if math.Abs(a.Confidence-math.Abs(margin)) > 2*wireTolerance {
		fail("confidence %.4f is not |p - threshold| = %.4f", a.Confidence, math.Abs(margin))
	}

	hasPassFields := a.RecommendedAction != "" || a.ActionConfidence != nil ||
		a.ConfidenceLevel != "" || a.PrimaryReason != ""
	completePassFields := a.RecommendedAction != "" && a.ActionConfidence != nil &&
		a.ConfidenceLevel != "" && a.PrimaryReason != ""
	if a.Decision == types.DecisionPass && !completePassFields {
		fail("PASS without a complete action recommendation")
	}
	if a.Decision == types.DecisionTake && hasPassFields {
		fail("TAKE SHOT carries action recommendation fields")
	}

	if a.ActionConfidence != nil {
		score := *a.ActionConfidence
		if score < minActionConfidence || score > maxActionConfidence {
			fail("action_confidence %.2f outside [%.2f,%.2f]", score, minActionConfidence, maxActionConfidence)
		}
		lo, hi := confidence.Level(score-levelTolerance), confidence.Level(score+levelTolerance)
		if a.ConfidenceLevel != lo && a.ConfidenceLevel != hi {
			fail("confidence_level %q does not match score %.2f", a.ConfidenceLevel, score)
		}
	}
	return out
}
