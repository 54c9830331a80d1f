// Package scoring produces the base make probability that the advisory rule
// chain adjusts. The learned model itself lives outside this service; this
// package offers a local logistic approximation, a client for a remote model
// server and a fallback combinator.
package scoring

import (
	"context"
	"errors"
	"math"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

// Probability sources reported in Result.Source.
const (
	SourceLogistic = "logistic"
	SourceRemote   = "remote"
	SourceRequest  = "request"
)

const radToDeg = 180 / math.Pi

var (
	// ErrUnavailable is returned when a scorer cannot currently serve requests.
	ErrUnavailable = errors.New("scorer unavailable")
	// ErrBadResponse is returned when a remote model answers with an unusable payload.
	ErrBadResponse = errors.New("invalid model response")
)

// Result contains the base make probability for a shot.
type Result struct {
	Probability float64
	Source      string
}

// Scorer computes a base make probability from a shot context.
type Scorer interface {
	// Score computes a probability, honoring ctx for cancellation.
	Score(ctx context.Context, shot model.Shot) (Result, error)
}

// Features is the engineered feature row sent to model servers.
type Features struct {
	ShotDistance       float64 `json:"SHOT_DISTANCE"`
	LocX               float64 `json:"LOC_X"`
	LocY               float64 `json:"LOC_Y"`
	ShotType           string  `json:"SHOT_TYPE"`
	BasicZone          string  `json:"BASIC_ZONE"`
	ZoneName           string  `json:"ZONE_NAME"`
	Quarter            int     `json:"QUARTER"`
	MinsLeft           int     `json:"MINS_LEFT"`
	SecsLeft           int     `json:"SECS_LEFT"`
	TimeRemaining      int     `json:"TIME_REMAINING"`
	ShotAngle          float64 `json:"SHOT_ANGLE"`
	DistanceFromCenter float64 `json:"DISTANCE_FROM_CENTER"`
	Position           string  `json:"POSITION"`
	PositionGroup      string  `json:"POSITION_GROUP"`
	ActionType         string  `json:"ACTION_TYPE,omitempty"`
}

var zoneNames = map[types.Zone]string{
	types.ZoneLeftCorner3:  "Left Side",
	types.ZoneRightCorner3: "Right Side",
	types.ZoneLeftSide3:    "Left Side Center",
	types.ZoneRightSide3:   "Right Side Center",
}

// NewFeatures derives the feature row for shot.
func NewFeatures(shot model.Shot) Features {
	zoneName, ok := zoneNames[shot.Zone]
	if !ok {
		zoneName = "Center"
	}
	return Features{
		ShotDistance:       shot.Distance,
		LocX:               shot.LocX,
		LocY:               shot.LocY,
		ShotType:           string(shot.Type),
		BasicZone:          string(shot.Zone),
		ZoneName:           zoneName,
		Quarter:            shot.Quarter,
		MinsLeft:           shot.TimeRemaining / 60,
		SecsLeft:           shot.TimeRemaining % 60,
		TimeRemaining:      shot.TimeRemaining,
		ShotAngle:          math.Atan2(shot.LocY, shot.LocX) * radToDeg,
		DistanceFromCenter: math.Hypot(shot.LocX, shot.LocY),
		Position:           shot.Position,
		PositionGroup:      shot.PositionGroup(),
		ActionType:         shot.ActionType,
	}
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
