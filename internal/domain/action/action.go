// Package action recommends what to do instead of shooting when the
// advisor says PASS.
package action

import (
	"fmt"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Params holds the cascade cut-offs.
type Params struct {
	TightDistance      float64 // ft
	ContestedDistance  float64 // ft
	LowQuality         float64
	MediumQuality      float64
	LateClockSeconds   int
	EarlyClockSeconds  int
	ResetClockSeconds  int
	PerimeterDistance  float64 // ft, poor location split
	CloseoutDistance   float64 // ft, attack vs drive split
	FinalSecondsInQ4   int
	FinalRegulationQtr int
}

// DefaultParams returns the standard cut-offs.
func DefaultParams() Params {
	return Params{
		TightDistance:      3.0,
		ContestedDistance:  6.0,
		LowQuality:         0.30,
		MediumQuality:      0.35,
		LateClockSeconds:   5,
		EarlyClockSeconds:  15,
		ResetClockSeconds:  10,
		PerimeterDistance:  20.0,
		CloseoutDistance:   22.0,
		FinalSecondsInQ4:   3,
		FinalRegulationQtr: 4,
	}
}

// Recommender maps a PASS context to one of the seven actions.
type Recommender struct {
	p Params
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithParams replaces the cut-offs. Params without a tight distance are ignored.
func WithParams(p Params) Option {
	return func(r *Recommender) {
		if p.TightDistance > 0 {
			r.p = p
		}
	}
}

// NewRecommender creates a Recommender with the default cut-offs.
func NewRecommender(opts ...Option) *Recommender {
	r := &Recommender{p: DefaultParams()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PrimaryReason classifies why the shot was passed up. The cascade is
// ordered and the first match wins.
func (r *Recommender) PrimaryReason(prob float64, shot model.Shot) types.PrimaryReason {
	if shot.TimeRemaining <= r.p.LateClockSeconds {
		return types.ReasonLateClock
	}
	if shot.Contest == types.ContestTight || r.within(shot, r.p.TightDistance) {
		if shot.Zone.IsThreePoint() && shot.Type.IsThree() {
			return types.ReasonTightContestGoodZone
		}
		return types.ReasonTightContest
	}
	if shot.Contest == types.ContestContested || r.within(shot, r.p.ContestedDistance) {
		if shot.Zone.IsThreePoint() {
			return types.ReasonContestedPerimeter
		}
		return types.ReasonContestedShot
	}
	if prob < r.p.LowQuality {
		if shot.Distance > r.p.PerimeterDistance {
			return types.ReasonPoorLocationPerimeter
		}
		return types.ReasonPoorLocationGeneral
	}
	if prob < r.p.MediumQuality && shot.TimeRemaining >= r.p.EarlyClockSeconds {
		return types.ReasonMarginalTimeAvailable
	}
	return types.ReasonLowQualityGeneral
}

func (r *Recommender) within(shot model.Shot, limit float64) bool {
	return shot.HasDefender() && *shot.DefenderDistance <= limit
}

// Recommend picks an action and renders its reasoning.
func (r *Recommender) Recommend(prob float64, shot model.Shot) model.ActionRecommendation {
	reason := r.PrimaryReason(prob, shot)
	act, text := r.selectAction(reason, prob, shot)
	return model.ActionRecommendation{
		Action:        act,
		Reasoning:     text,
		PrimaryReason: reason,
	}
}

func (r *Recommender) selectAction(reason types.PrimaryReason, prob float64, shot model.Shot) (types.Action, string) {
	pct := prob * 100
	switch reason {
	case types.ReasonLateClock:
		if shot.Quarter == r.p.FinalRegulationQtr && shot.TimeRemaining <= r.p.FinalSecondsInQ4 {
			return types.ActionBestAvailable,
				"Clock is critical in the 4th quarter. If no better option emerges in the next second, " +
					"this might be your best available shot despite the low probability."
		}
		return types.ActionBestAvailable, fmt.Sprintf(
			"With only %d seconds left, limited options remain. "+
				"Look for a quick drive or immediate kick-out, but be ready to shoot if nothing develops.",
			shot.TimeRemaining)

	case types.ReasonTightContestGoodZone:
		if shot.Distance >= r.p.CloseoutDistance {
			return types.ActionAttackCloseout, fmt.Sprintf(
				"The defender is flying at you (%s) but you're in a quality %s spot. "+
					"Attack the closeout with a hard drive to force help defense, "+
					"then kick to an open teammate or finish at the rim.",
				defenderAway(shot), shot.Zone)
		}
		return types.ActionDriveAndKick,
			"The defender is tight on you in a decent mid-range area. " +
				"Use your dribble to collapse the defense and create an open perimeter look."

	case types.ReasonTightContest:
		return types.ActionSwingPass, fmt.Sprintf(
			"The defender is locked in tight (%s), limiting your shooting space. "+
				"A quick swing pass forces defensive rotation and should create an open look on the weak side.",
			defenderAway(shot))

	case types.ReasonContestedPerimeter:
		if shot.TimeRemaining >= r.p.EarlyClockSeconds {
			return types.ActionSwingPass, fmt.Sprintf(
				"The defender is contesting actively (%s) on a three-point attempt. "+
					"With time on the clock, swing the ball to find a cleaner look or better spacing.",
				defenderFeet(shot))
		}
		return types.ActionRelocate,
			"The defender has you contested on the perimeter. " +
				"Relocate to another spot along the arc to create separation, or look for a backdoor cut."

	case types.ReasonContestedShot:
		return types.ActionLookInside,
			"The defender is contesting your mid-range look. " +
				"Scan for a cutting teammate or post entry paint touches often lead to better shots or free throws."

	case types.ReasonPoorLocationPerimeter:
		return types.ActionResetOffense, fmt.Sprintf(
			"This %.1f-foot shot is outside optimal range (%.1f%% probability). "+
				"Reset the offense to generate a higher-quality look through ball movement or a designed play.",
			shot.Distance, pct)

	case types.ReasonPoorLocationGeneral:
		if shot.Zone.IsPaint() {
			return types.ActionDriveAndKick,
				"You're in traffic in the paint. " +
					"Kick out to a perimeter shooter to force the defense to recover and create better spacing."
		}
		return types.ActionLookInside, fmt.Sprintf(
			"The %s is not yielding quality looks right now. "+
				"Feed the post or drive to collapse the defense, then kick out for an open three.",
			shot.Zone)

	case types.ReasonMarginalTimeAvailable:
		if shot.Type.IsThree() {
			return types.ActionResetOffense, fmt.Sprintf(
				"This three-pointer shows %.1f%% probability with %ds remaining. "+
					"Run another action to create a better look penetrate and kick, or set a ball screen.",
				pct, shot.TimeRemaining)
		}
		return types.ActionLookInside, fmt.Sprintf(
			"This two-pointer is marginal (%.1f%%) with time on the clock. "+
				"Probe the paint for a higher-percentage shot or drawing help to kick out.",
			pct)
	}

	if shot.TimeRemaining >= r.p.ResetClockSeconds {
		return types.ActionResetOffense, fmt.Sprintf(
			"This shot has a %.1f%% make probability. "+
				"With time available, reset and run an action to generate a better opportunity.",
			pct)
	}
	return types.ActionSwingPass,
		"The shot quality is below threshold. Make a quick pass to find a better look before the clock expires."
}

func defenderAway(shot model.Shot) string {
	if shot.DefenderDistance == nil {
		return "distance unknown"
	}
	return fmt.Sprintf("%.1f ft away", *shot.DefenderDistance)
}

func defenderFeet(shot model.Shot) string {
	if shot.DefenderDistance == nil {
		return "distance unknown"
	}
	return fmt.Sprintf("%.1f ft", *shot.DefenderDistance)
}
