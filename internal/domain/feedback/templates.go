package feedback

// PassReason is the dominant factor used to phrase a PASS explanation.
type PassReason string

const (
	ReasonTightDefense   PassReason = "tight_defense"
	ReasonPoorLocation   PassReason = "poor_location"
	ReasonContestedThree PassReason = "contested_three"
	ReasonLateClock      PassReason = "late_clock_pressure"
	ReasonEarlyClock     PassReason = "early_clock_rush"
	ReasonLowPercentage  PassReason = "low_percentage_area"
	ReasonMarginal       PassReason = "marginal_decision"
)

// Each template carries one %s for the context snippet.
var passTemplates = map[PassReason][]string{
	ReasonTightDefense: {
		"The defender is right on you, making this a tough shot even for elite shooters. %s Moving the ball gives the offense a better chance.",
		"This is a heavily contested look. %s Trust your teammates to find better spacing.",
		"With a defender this close, the probability drops significantly. %s Keep the ball moving.",
		"That's hand-in-face defense. %s There's a better shot available if we swing it.",
		"The contest is too tight here. %s Let's create some separation first.",
	},
	ReasonContestedThree: {
		"This three is contested, and the math doesn't favor taking it. %s An extra pass could open up a cleaner look.",
		"With a defender closing out, this three becomes low percentage. %s We've got time to find better.",
		"The defense is recovering on this three-point attempt. %s Another touch or two could get us an open look.",
		"This is the kind of contested three we want to avoid. %s Let's work for something cleaner.",
		"The closeout makes this three harder than it needs to be. %s Keep attacking.",
	},
	ReasonPoorLocation: {
		"This spot on the floor has a lower success rate than other options. %s Moving closer or finding a three gives us better math.",
		"The data shows this area isn't high value for us. %s Let's work for a shot at the rim or from three.",
		"This is one of the tougher zones on the floor. %s We can create something more efficient.",
		"Shot quality matters here this location puts us at a disadvantage. %s Another pass improves our chances.",
		"This isn't where we want to live. %s Get to the rim or kick it out for three.",
	},
	ReasonLateClock: {
		"The shot clock is running down, but this look isn't worth forcing. %s Make the smart play.",
		"With time running out, this is still a low-percentage option. %s Don't settle attack or find the open man.",
		"Even in late clock, we need to be disciplined. %s A better decision is available.",
		"The pressure is on, but forcing this shot doesn't help us. %s Stay composed.",
		"Clock's low, but this isn't the answer. %s Trust your read.",
	},
	ReasonEarlyClock: {
		"There's plenty of time left no need to settle for this. %s Let's work the possession.",
		"We're early in the clock and can get a better look. %s Be patient with the offense.",
		"With this much time, we should be looking for quality over speed. %s Keep the ball moving.",
		"No reason to rush into this shot. %s Let the play develop.",
		"The clock gives us options here. %s Don't force it early in the possession.",
	},
	ReasonLowPercentage: {
		"This area of the floor doesn't produce for us consistently. %s Find a better spot.",
		"Historically, this shot type from here has low success rates. %s Let's create a higher-value attempt.",
		"The numbers don't favor taking this shot. %s Another action could get us something cleaner.",
		"This is a low-efficiency zone. %s Work for position or reset the offense.",
		"We don't want to live in this space. %s Get back to our strengths.",
	},
	ReasonMarginal: {
		"This is close, but the odds are just under where we want them. %s One more pass could tip the scales.",
		"It's a borderline decision leaning toward passing to improve our chances. %s Stay aggressive but smart.",
		"The probability is right on the edge. %s Trust the process and find the extra percent.",
		"This is almost there, but we can do slightly better. %s Keep the confidence, make the right read.",
		"It's a judgment call, and the data suggests looking off this one. %s Good recognition.",
	},
}

const (
	snippetTimePlenty      = "We've got time to work."
	snippetTimeSome        = "There's still time on the clock."
	snippetTimeLow         = "Even with the clock winding down,"
	snippetQuarterEarly    = "It's early in the game stay patient."
	snippetQuarterLate     = "Late in the game, every possession matters."
	snippetDistanceFar     = "That's a long shot to settle for."
	snippetDistanceClose   = "You're close attack the rim instead."
	snippetDefenderTight   = "The defender took away your space."
	snippetDefenderContest = "The defense is in position."
)

var (
	tightDefenderInsights = []string{
		"With the defender only %.1f feet away, you're looking at hand-in-face defense.",
		"Defender is at %.1f feet, that's elite closeout position.",
		"At %.1f feet, the defender has taken away your shooting window.",
	}
	contestDefenderInsights = []string{
		"The defender at %.1f feet is in active contest range.",
		"With %.1f feet of separation, they can still challenge the shot effectively.",
	}

	wideMarginInsights = []string{
		"This shot grades significantly below our quality standards.",
		"The combination of factors makes this a low-value attempt.",
		"Multiple indicators suggest this isn't the right play.",
	}
	mediumMarginInsights = []string{
		"This shot is below our target efficiency range.",
		"The situation calls for a better option.",
		"We can improve our chances with an extra pass or action.",
	}
	narrowMarginInsights = []string{
		"This is close, but we're looking for that extra edge.",
		"It's a borderline decision, let's focus on the side of quality.",
		"Trust the read and find the incremental improvement.",
	}
)
