// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/okian/shotcall/internal/domain/types"
)

const (
	secondsPerMinute = 60
	defaultPosition  = "PG"
)

// Shot is the request-scoped context of a single shot attempt.
// DefenderDistance is nil when no tracking data is available.
type Shot struct {
	Distance         float64
	LocX             float64
	LocY             float64
	Type             types.ShotType
	Zone             types.Zone
	Quarter          int
	TimeRemaining    int // seconds
	Position         string
	ActionType       string
	DefenderDistance *float64
	Contest          types.ContestLevel
}

// HasDefender reports whether a usable (non-negative) defender distance is known.
func (s Shot) HasDefender() bool {
	return s.DefenderDistance != nil && *s.DefenderDistance >= 0
}

// DefenderDistanceOr returns the defender distance or def when absent.
func (s Shot) DefenderDistanceOr(def float64) float64 {
	if s.DefenderDistance == nil {
		return def
	}
	return *s.DefenderDistance
}

// PositionGroup returns the first letter of the position, G when unknown.
func (s Shot) PositionGroup() string {
	if s.Position == "" {
		return "G"
	}
	return strings.ToUpper(s.Position[:1])
}

// ShotRequest is the wire shape of a shot submitted for advice.
type ShotRequest struct {
	ShotDistance     float64  `json:"shot_distance" validate:"gte=0,lte=94"`
	LocX             float64  `json:"loc_x" validate:"gte=-50,lte=50"`
	LocY             float64  `json:"loc_y" validate:"gte=-10,lte=94"`
	ShotType         string   `json:"shot_type" validate:"required,shot_type"`
	Zone             string   `json:"zone" validate:"required"`
	Quarter          int      `json:"quarter" validate:"gte=1,lte=10"`
	MinsLeft         int      `json:"mins_left" validate:"gte=0,lte=12"`
	SecsLeft         int      `json:"secs_left" validate:"gte=0,lte=59"`
	Position         string   `json:"position,omitempty" validate:"omitempty,max=8"`
	ActionType       string   `json:"action_type,omitempty" validate:"omitempty,max=64"`
	DefenderDistance *float64 `json:"defender_distance,omitempty"`
	ContestLevel     string   `json:"contest_level,omitempty"`
	BaseProbability  *float64 `json:"base_probability,omitempty" validate:"omitempty,gte=0,lte=1"`
	ExplanationMode  string   `json:"explanation_mode,omitempty" validate:"omitempty,oneof=feedback player coach"`
}

// TimeRemaining returns the game-clock seconds left in the period.
func (r ShotRequest) TimeRemaining() int {
	return r.MinsLeft*secondsPerMinute + r.SecsLeft
}

// ToShot converts the request to the domain shot context. A defender
// distance without a contest level is read as an OPEN look.
func (r ShotRequest) ToShot() Shot {
	st, _ := types.ParseShotType(r.ShotType)
	zone, _ := types.ParseZone(r.Zone)
	position := r.Position
	if position == "" {
		position = defaultPosition
	}
	contest := types.ParseContestLevel(r.ContestLevel)
	if contest == types.ContestNone && r.DefenderDistance != nil && *r.DefenderDistance >= 0 {
		contest = types.ContestOpen
	}
	return Shot{
		Distance:         r.ShotDistance,
		LocX:             r.LocX,
		LocY:             r.LocY,
		Type:             st,
		Zone:             zone,
		Quarter:          r.Quarter,
		TimeRemaining:    r.TimeRemaining(),
		Position:         position,
		ActionType:       r.ActionType,
		DefenderDistance: r.DefenderDistance,
		Contest:          contest,
	}
}
