package feedback

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/shotcall/internal/domain/types"
)

const (
	significantGap    = 0.10
	shortfallGap      = 0.05
	insightHighMargin = 0.15
	deepThreeFt       = 27.0
	longTwoFt         = 15.0
	finalSeconds      = 5
	timeToWorkSeconds = 15
	clutchSeconds     = 120
)

// DualExplanation holds both renderings plus a teaching point.
type DualExplanation struct {
	Player          []string `json:"player"`
	Coach           []string `json:"coach"`
	CoachingInsight string   `json:"coaching_insight"`
}

// PlayerExplanation is a single short, action-focused line with no numbers.
func PlayerExplanation(in Input) []string {
	s := in.Shot
	if in.Decision == types.DecisionTake {
		switch {
		case s.Contest == types.ContestWideOpen || s.Contest == types.ContestOpen:
			return []string{"You're open with a clean look. Let it fly."}
		case s.Zone.IsCorner():
			return []string{"Corner three with good spacing. Take the shot."}
		case s.Distance <= rimDistanceFt:
			return []string{"You're at the rim. Attack strong."}
		default:
			return []string{"This is a good shot for you. Be confident."}
		}
	}

	switch {
	case s.Contest == types.ContestTight:
		return []string{"Defender's hand is in your face. Move the ball."}
	case s.Contest == types.ContestContested && s.Zone == types.ZoneMidRange:
		return []string{"Contested long two isn't efficient. Find a better look."}
	case s.Type.IsThree() && s.Distance >= deepThreeFt:
		return []string{"Too deep for a good look. Reset or drive."}
	case s.Contest == types.ContestContested:
		return []string{"The defense is on you. Pass to create space."}
	case s.Zone == types.ZoneMidRange && s.Distance >= longTwoFt:
		return []string{"Long two isn't your best option. Get closer or kick out."}
	case s.TimeRemaining <= finalSeconds:
		return []string{"Clock's running down. Make a quick decision."}
	default:
		return []string{"Not your shot right now. Keep the ball moving."}
	}
}

// CoachExplanation is a multi-factor analytical rendering that cites the
// probability and threshold.
func CoachExplanation(in Input) []string {
	if in.Decision == types.DecisionTake {
		return coachTake(in)
	}
	return coachPass(in)
}

func coachTake(in Input) []string {
	s := in.Shot
	gap := math.Abs(in.Probability - in.Threshold)
	out := make([]string, 0, 4)

	if gap >= significantGap {
		out = append(out, fmt.Sprintf("Make probability (%.1f%%) significantly exceeds the efficiency threshold (%.1f%%) for this situation.",
			in.Probability*100, in.Threshold*100))
	} else {
		out = append(out, fmt.Sprintf("Make probability (%.1f%%) meets the efficiency threshold (%.1f%%), making this a viable shot.",
			in.Probability*100, in.Threshold*100))
	}

	switch {
	case s.Zone.IsCorner():
		out = append(out, "Corner three-pointers are among the highest-efficiency shots in basketball "+
			"due to shorter distance (22-23.75 ft) and floor spacing.")
	case s.Zone == types.ZoneRestrictedArea:
		out = append(out, "Shots in the restricted area have the highest expected value, "+
			"especially with verticality and proper finishing technique.")
	case s.Type.IsThree():
		out = append(out, fmt.Sprintf("Three-point attempt from %.1f feet in the %s offers positive expected value when open.",
			s.Distance, s.Zone))
	default:
		out = append(out, fmt.Sprintf("Shot selection from %s (%.1f ft) aligns with efficient offensive principles.",
			s.Zone, s.Distance))
	}

	switch s.Contest {
	case types.ContestWideOpen:
		if s.DefenderDistance != nil {
			out = append(out, fmt.Sprintf("Defender is %.1f feet away, providing minimal defensive pressure. "+
				"This is an ideal catch-and-shoot opportunity.", *s.DefenderDistance))
		} else {
			out = append(out, "No defender is close, providing minimal defensive pressure. "+
				"This is an ideal catch-and-shoot opportunity.")
		}
	case types.ContestOpen:
		out = append(out, "Late defensive rotation creates a window for the shot. "+
			"Shooter should be in rhythm and balanced.")
	}

	if s.TimeRemaining <= finalSeconds {
		out = append(out, "With shot clock winding down, this represents the best available scoring opportunity. "+
			"Execution is critical.")
	}
	return out
}

func coachPass(in Input) []string {
	s := in.Shot
	gap := math.Abs(in.Probability - in.Threshold)
	out := make([]string, 0, 5)

	switch {
	case gap >= significantGap:
		out = append(out, fmt.Sprintf("Make probability (%.1f%%) is well below the efficiency threshold (%.1f%%) for this zone and situation.",
			in.Probability*100, in.Threshold*100))
	case gap >= shortfallGap:
		out = append(out, fmt.Sprintf("Make probability (%.1f%%) falls short of the target efficiency (%.1f%%), suggesting a better opportunity exists.",
			in.Probability*100, in.Threshold*100))
	default:
		out = append(out, fmt.Sprintf("Make probability (%.1f%%) is marginally below threshold (%.1f%%). Consider alternative options.",
			in.Probability*100, in.Threshold*100))
	}

	if s.DefenderDistance != nil {
		switch s.Contest {
		case types.ContestTight:
			out = append(out, fmt.Sprintf("Defender closeout at %.1f feet creates tight contest, significantly reducing shot quality. "+
				"Historical data shows hand-in-face defense lowers make probability by 15-20 percentage points.", *s.DefenderDistance))
		case types.ContestContested:
			out = append(out, fmt.Sprintf("Active defensive contest from %.1f feet away reduces expected shot value. "+
				"Driving or passing creates better looks.", *s.DefenderDistance))
		}
	}

	switch {
	case s.Type == types.TwoPoint && s.Zone == types.ZoneMidRange && s.Distance >= longTwoFt:
		out = append(out, fmt.Sprintf("Long two-point attempts (%.1f ft) are historically inefficient compared to driving "+
			"to the rim or stepping back for a three. Advanced analytics favor threes and layups over mid-range shots.", s.Distance))
	case s.Type.IsThree() && s.Distance >= deepThreeFt:
		out = append(out, fmt.Sprintf("Deep three-pointer from %.1f feet is beyond optimal range for most players. "+
			"Expected value decreases significantly past 26 feet.", s.Distance))
	case !s.Zone.IsCorner() && s.Zone != types.ZoneRestrictedArea:
		out = append(out, fmt.Sprintf("Shot from %s at %.1f feet doesn't align with high-efficiency zone preferences "+
			"(corners, rim, select above-the-break areas).", s.Zone, s.Distance))
	}

	switch {
	case s.TimeRemaining <= finalSeconds:
		out = append(out, "Despite late shot clock, this is still a forced attempt. "+
			"Better offensive execution earlier in the possession would prevent this situation.")
	case s.TimeRemaining >= timeToWorkSeconds:
		out = append(out, fmt.Sprintf("With %d seconds remaining, there's time to create a higher-quality shot "+
			"through ball movement and player movement.", s.TimeRemaining))
	}

	if s.Quarter >= lateQuarter && s.TimeRemaining <= clutchSeconds {
		out = append(out, "In clutch situations, shot selection becomes even more critical. "+
			"Maximizing expected points per possession is essential.")
	}
	return out
}

// CoachingInsight is a single teaching point for the possession. act is the
// recommended action and may be empty.
func CoachingInsight(in Input, act types.Action) string {
	s := in.Shot
	if in.Decision == types.DecisionTake {
		switch {
		case s.Contest == types.ContestWideOpen || s.Contest == types.ContestOpen:
			return "Great shot selection discipline, taking open looks in rhythm is how efficient offenses operate."
		case s.Zone.IsCorner():
			return "Emphasize corner three opportunities in offensive schemes, they're the most efficient outside shots."
		case in.Probability >= in.Threshold+insightHighMargin:
			return "This is exactly the type of high-quality shot we want to generate consistently."
		default:
			return "Confident, on-balance shooting in good locations builds offensive rhythm."
		}
	}

	label := string(act)
	switch {
	case s.Contest == types.ContestTight:
		return "Encourage one more pass against tight closeouts, defenders committed to the ball create passing lanes."
	case s.Type == types.TwoPoint && s.Zone == types.ZoneMidRange:
		return "Work on attacking the rim or creating three-point looks rather than settling for mid-range shots."
	case s.Type.IsThree() && s.Distance >= deepThreeFt:
		return "Coach players to recognize range limitations, relocating 2-3 feet closer significantly improves efficiency."
	case strings.Contains(label, "Swing"):
		return "Encourage ball reversal to improve spacing and create higher-quality looks on the weak side."
	case strings.Contains(label, "Drive"):
		return "Teach players to attack closeouts, driving to the rim or creating kick-out opportunities."
	case strings.Contains(label, "Reset"):
		return "Emphasize early offense execution to avoid late-clock forced attempts."
	case s.Contest == types.ContestContested:
		return "Reinforce the principle: when the defense commits, the offense should move the ball."
	default:
		return "Shot selection discipline is the foundation of efficient offense, trust the process."
	}
}

// DualMode renders both modes and the coaching insight together.
func DualMode(in Input, act types.Action) DualExplanation {
	return DualExplanation{
		Player:          PlayerExplanation(in),
		Coach:           CoachExplanation(in),
		CoachingInsight: CoachingInsight(in, act),
	}
}

// Render returns the explanation lines for mode. The feedback mode uses g's
// randomised coach feedback; the other modes are deterministic.
func (g *Generator) Render(mode types.ExplanationMode, in Input) []string {
	switch mode {
	case types.ModePlayer:
		return PlayerExplanation(in)
	case types.ModeCoach:
		return CoachExplanation(in)
	default:
		return g.CoachFeedback(in)
	}
}
