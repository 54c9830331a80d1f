package confidence_test

import (
	"testing"

	"github.com/okian/shotcall/internal/domain/confidence"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	Convey("Given the confidence calculator", t, func() {
		c := confidence.NewCalculator()

		Convey("When a deep three is tightly contested", func() {
			res := c.Compute(0.24, 0.35, types.DecisionPass, model.Shot{
				Distance:         28,
				Type:             types.ThreePoint,
				Zone:             types.ZoneAboveBreak3,
				TimeRemaining:    16,
				Quarter:          2,
				DefenderDistance: ptr(2),
				Contest:          types.ContestTight,
			})

			So(res.Factors.BaseConfidence, ShouldEqual, 0.70)
			So(res.Factors.ProbabilityThresholdGap, ShouldEqual, 0.11)
			So(res.Factors.ActiveAdjustments, ShouldResemble, []string{"tight_contest", "deep_three_attempt"})
			So(res.Factors.TotalAdjustment, ShouldEqual, 0.18)
			So(res.Score, ShouldEqual, 0.88)
			So(res.Level, ShouldEqual, types.ConfidenceVeryHigh)
			So(res.Reasoning, ShouldEqual, "The shot is clearly below the efficiency threshold, tightly contested, and from deep 3-point range.")
		})

		Convey("When a late-clock clutch mid-range shot is contested", func() {
			res := c.Compute(0.36, 0.40, types.DecisionPass, model.Shot{
				Distance:      15,
				Type:          types.TwoPoint,
				Zone:          types.ZoneMidRange,
				TimeRemaining: 3,
				Quarter:       4,
				Contest:       types.ContestContested,
			})

			So(res.Factors.BaseConfidence, ShouldEqual, 0.40)
			So(res.Factors.ActiveAdjustments, ShouldResemble, []string{
				"contested_shot", "late_clock_pressure", "inefficient_midrange", "clutch_situation",
			})
			So(res.Factors.TotalAdjustment, ShouldEqual, -0.07)
			So(res.Score, ShouldEqual, 0.33)
			So(res.Level, ShouldEqual, types.ConfidenceLow)
			So(res.Reasoning, ShouldEqual, "The shot is marginally below the efficiency threshold, actively contested, "+
				"from inefficient mid-range area, and though shot clock pressure limits alternatives.")
		})

		Convey("When only two reasoning clauses apply", func() {
			res := c.Compute(0.28, 0.35, types.DecisionPass, model.Shot{
				Distance:      23,
				Type:          types.ThreePoint,
				Zone:          types.ZoneRightCorner3,
				TimeRemaining: 20,
				Quarter:       2,
				Contest:       types.ContestContested,
			})

			So(res.Score, ShouldEqual, 0.60)
			So(res.Level, ShouldEqual, types.ConfidenceHigh)
			So(res.Reasoning, ShouldEqual, "The shot is moderately below the efficiency threshold, making this a clear passing decision.")
		})

		Convey("When location adjustments could overlap", func() {
			res := c.Compute(0.2, 0.35, types.DecisionPass, model.Shot{
				Distance:      29,
				Type:          types.ThreePoint,
				Zone:          types.ZoneAboveBreak3,
				TimeRemaining: 20,
				Quarter:       1,
			})

			Convey("Then only the first match is applied", func() {
				So(res.Factors.ActiveAdjustments, ShouldResemble, []string{"deep_three_attempt"})
				So(res.Factors.TotalAdjustment, ShouldEqual, 0.08)
			})
		})

		Convey("When an above-the-break three is long but not deep", func() {
			res := c.Compute(0.18, 0.35, types.DecisionPass, model.Shot{
				Distance:      26,
				Type:          types.ThreePoint,
				Zone:          types.ZoneAboveBreak3,
				TimeRemaining: 20,
				Quarter:       1,
			})
			So(res.Factors.ActiveAdjustments, ShouldResemble, []string{"difficult_angle"})
			So(res.Reasoning, ShouldEqual, "The shot is well below the efficiency threshold, making this a clear passing decision.")
		})

		Convey("When the decision is to take the shot", func() {
			res := c.Compute(0.47, 0.35, types.DecisionTake, model.Shot{
				Distance:      23,
				Type:          types.ThreePoint,
				Zone:          types.ZoneLeftCorner3,
				TimeRemaining: 16,
				Quarter:       3,
				Contest:       types.ContestTight,
			})

			Convey("Then PASS-only adjustments are skipped", func() {
				So(res.Factors.ActiveAdjustments, ShouldBeEmpty)
				So(res.Score, ShouldEqual, 0.70)
				So(res.Reasoning, ShouldEqual, "The shot exceeds the efficiency threshold by 12.0%, indicating a good scoring opportunity.")
			})
		})

		Convey("When every positive adjustment fires on a huge gap", func() {
			res := c.Compute(0.05, 0.35, types.DecisionPass, model.Shot{
				Distance:      30,
				Type:          types.ThreePoint,
				Zone:          types.ZoneAboveBreak3,
				TimeRemaining: 20,
				Quarter:       1,
				Contest:       types.ContestTight,
			})

			Convey("Then the score is capped", func() {
				So(res.Score, ShouldEqual, 0.95)
			})
		})

		Convey("Then every score stays in [0.15, 0.95]", func() {
			contests := []types.ContestLevel{types.ContestNone, types.ContestTight, types.ContestContested, types.ContestOpen}
			for p := 0.0; p <= 1.0; p += 0.1 {
				for _, clock := range []int{0, 4, 9, 100, 700} {
					for _, q := range []int{1, 4, 5} {
						for _, cl := range contests {
							for _, d := range []types.Decision{types.DecisionPass, types.DecisionTake} {
								res := c.Compute(p, 0.35, d, model.Shot{
									Distance: 27, Type: types.ThreePoint, Zone: types.ZoneAboveBreak3,
									TimeRemaining: clock, Quarter: q, Contest: cl,
								})
								So(res.Score, ShouldBeBetweenOrEqual, 0.15, 0.95)
							}
						}
					}
				}
			}
		})
	})
}

func TestLevel(t *testing.T) {
	Convey("Given level boundaries", t, func() {
		So(confidence.Level(0.95), ShouldEqual, types.ConfidenceVeryHigh)
		So(confidence.Level(0.75), ShouldEqual, types.ConfidenceVeryHigh)
		So(confidence.Level(0.7499), ShouldEqual, types.ConfidenceHigh)
		So(confidence.Level(0.60), ShouldEqual, types.ConfidenceHigh)
		So(confidence.Level(0.5999), ShouldEqual, types.ConfidenceModerate)
		So(confidence.Level(0.45), ShouldEqual, types.ConfidenceModerate)
		So(confidence.Level(0.4499), ShouldEqual, types.ConfidenceLow)
		So(confidence.Level(0.15), ShouldEqual, types.ConfidenceLow)
	})
}
