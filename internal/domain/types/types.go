// Package types contains the closed enumerations shared by the advisory rule chain.
package types

import "strings"

// ShotType is the field-goal type of a shot attempt.
type ShotType string

const (
	TwoPoint   ShotType = "2PT Field Goal"
	ThreePoint ShotType = "3PT Field Goal"
)

// ParseShotType accepts the wire form as well as the short "2PT"/"3PT" and
// TWO_PT/THREE_PT spellings.
func ParseShotType(s string) (ShotType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2PT FIELD GOAL", "2PT", "TWO_PT":
		return TwoPoint, true
	case "3PT FIELD GOAL", "3PT", "THREE_PT":
		return ThreePoint, true
	}
	return ShotType(s), false
}

// IsThree reports whether the shot is a three-point attempt.
func (s ShotType) IsThree() bool { return s == ThreePoint }

// Zone is a named court region (the BASIC_ZONE of the shot chart).
type Zone string

const (
	ZoneRestrictedArea Zone = "Restricted Area"
	ZonePaintNonRA     Zone = "In The Paint (Non-RA)"
	ZoneMidRange       Zone = "Mid-Range"
	ZoneAboveBreak3    Zone = "Above the Break 3"
	ZoneLeftCorner3    Zone = "Left Corner 3"
	ZoneRightCorner3   Zone = "Right Corner 3"
	ZoneLeftSide3      Zone = "Left Side 3"
	ZoneRightSide3     Zone = "Right Side 3"
	ZoneBackcourt      Zone = "Backcourt"
)

// Zones lists every recognised zone in court order.
var Zones = []Zone{
	ZoneRestrictedArea,
	ZonePaintNonRA,
	ZoneMidRange,
	ZoneLeftCorner3,
	ZoneRightCorner3,
	ZoneLeftSide3,
	ZoneRightSide3,
	ZoneAboveBreak3,
	ZoneBackcourt,
}

// ParseZone matches s case-insensitively against the known zones. Unknown
// zones are returned verbatim with ok=false; they match no lookup table.
func ParseZone(s string) (Zone, bool) {
	trimmed := strings.TrimSpace(s)
	for _, z := range Zones {
		if strings.EqualFold(string(z), trimmed) {
			return z, true
		}
	}
	return Zone(trimmed), false
}

// IsThreePoint reports membership in the three-point zone set.
func (z Zone) IsThreePoint() bool {
	switch z {
	case ZoneAboveBreak3, ZoneLeftCorner3, ZoneRightCorner3, ZoneLeftSide3, ZoneRightSide3:
		return true
	}
	return false
}

// IsPaint reports membership in the paint zone set.
func (z Zone) IsPaint() bool {
	return z == ZoneRestrictedArea || z == ZonePaintNonRA
}

// IsCorner reports whether the zone is one of the corner threes.
func (z Zone) IsCorner() bool {
	return z == ZoneLeftCorner3 || z == ZoneRightCorner3
}

// ContestLevel is the discrete defensive pressure on a shot. The zero value
// means no contest information was supplied.
type ContestLevel string

const (
	ContestNone      ContestLevel = ""
	ContestTight     ContestLevel = "TIGHT"
	ContestContested ContestLevel = "CONTESTED"
	ContestOpen      ContestLevel = "OPEN"
	ContestWideOpen  ContestLevel = "WIDE_OPEN"
)

// ParseContestLevel maps s to a contest level. An empty string is ContestNone;
// anything unrecognised is treated as OPEN.
func ParseContestLevel(s string) ContestLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ContestNone
	case "TIGHT":
		return ContestTight
	case "CONTESTED":
		return ContestContested
	case "WIDE_OPEN", "WIDE OPEN":
		return ContestWideOpen
	default:
		return ContestOpen
	}
}

// Decision is the shot recommendation.
type Decision string

const (
	DecisionTake Decision = "TAKE SHOT"
	DecisionPass Decision = "PASS"
)

// Action is the recommended next action after a PASS.
type Action string

const (
	ActionSwingPass      Action = "Swing Pass"
	ActionAttackCloseout Action = "Attack the Closeout"
	ActionResetOffense   Action = "Reset the Offense"
	ActionLookInside     Action = "Look Inside"
	ActionDriveAndKick   Action = "Drive and Kick"
	ActionBestAvailable  Action = "Take Best Available Shot"
	ActionRelocate       Action = "Relocate for Better Look"
)

// Actions lists every action label.
var Actions = []Action{
	ActionSwingPass,
	ActionAttackCloseout,
	ActionResetOffense,
	ActionLookInside,
	ActionDriveAndKick,
	ActionBestAvailable,
	ActionRelocate,
}

// PrimaryReason is the dominant factor behind a PASS recommendation.
type PrimaryReason string

const (
	ReasonLateClock             PrimaryReason = "late_clock"
	ReasonTightContestGoodZone  PrimaryReason = "tight_contest_good_zone"
	ReasonTightContest          PrimaryReason = "tight_contest"
	ReasonContestedPerimeter    PrimaryReason = "contested_perimeter"
	ReasonContestedShot         PrimaryReason = "contested_shot"
	ReasonPoorLocationPerimeter PrimaryReason = "poor_location_perimeter"
	ReasonPoorLocationGeneral   PrimaryReason = "poor_location_general"
	ReasonMarginalTimeAvailable PrimaryReason = "marginal_quality_time_available"
	ReasonLowQualityGeneral     PrimaryReason = "low_quality_general"
)

// ConfidenceLevel labels an action confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "Low"
	ConfidenceModerate ConfidenceLevel = "Moderate"
	ConfidenceHigh     ConfidenceLevel = "High"
	ConfidenceVeryHigh ConfidenceLevel = "Very High"
)

// ExplanationMode selects how explanation lines are rendered.
type ExplanationMode string

const (
	ModeFeedback ExplanationMode = "feedback"
	ModePlayer   ExplanationMode = "player"
	ModeCoach    ExplanationMode = "coach"
)

// ParseExplanationMode defaults to ModeFeedback for empty or unknown input.
func ParseExplanationMode(s string) ExplanationMode {
	switch ExplanationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePlayer:
		return ModePlayer
	case ModeCoach:
		return ModeCoach
	default:
		return ModeFeedback
	}
}
