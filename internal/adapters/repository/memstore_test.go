package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
)

func newReview(id string, shots int) model.Review {
	r := model.Review{ID: id}
	for i := 0; i < shots; i++ {
		r.Shots = append(r.Shots, model.ShotRequest{ShotType: "2PT Field Goal", Zone: "Mid-Range", Quarter: 1})
	}
	return r
}

func advice(p, th float64) *model.Advice {
	d := types.DecisionPass
	if p >= th {
		d = types.DecisionTake
	}
	return &model.Advice{Decision: d, MakeProbability: p, Threshold: th}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty review store", t, func() {
		s := NewMemoryStore()

		Convey("When a review is created", func() {
			r, created, err := s.Create(ctx, newReview("r1", 3))
			So(err, ShouldBeNil)

			Convey("Then it is pending with no results", func() {
				So(created, ShouldBeTrue)
				So(r.Status, ShouldEqual, model.ReviewPending)
				So(r.Total, ShouldEqual, 3)
				So(r.Results, ShouldBeEmpty)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("And the same id is submitted again", func() {
				again, created, err := s.Create(ctx, newReview("r1", 5))
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				So(again.Total, ShouldEqual, 3)
			})

			Convey("And results arrive out of order", func() {
				So(s.RecordResult(ctx, "r1", model.ReviewResult{Index: 2, Advice: advice(0.5, 0.4)}), ShouldBeNil)
				mid, _ := s.Get(ctx, "r1")
				So(mid.Status, ShouldEqual, model.ReviewProcessing)

				So(s.RecordResult(ctx, "r1", model.ReviewResult{Index: 0, Advice: advice(0.3, 0.4)}), ShouldBeNil)
				So(s.RecordResult(ctx, "r1", model.ReviewResult{Index: 1, Error: "boom"}), ShouldBeNil)

				got, err := s.Get(ctx, "r1")
				So(err, ShouldBeNil)

				Convey("Then the review is complete, ordered and summarized", func() {
					So(got.Status, ShouldEqual, model.ReviewComplete)
					So(len(got.Results), ShouldEqual, 3)
					So(got.Results[0].Index, ShouldEqual, 0)
					So(got.Results[2].Index, ShouldEqual, 2)
					So(got.Summary.Completed, ShouldEqual, 2)
					So(got.Summary.Failed, ShouldEqual, 1)
					So(*got.Summary.BestShot, ShouldEqual, 2)
				})

				Convey("Then a repeated result for a shot is ignored", func() {
					So(s.RecordResult(ctx, "r1", model.ReviewResult{Index: 0, Error: "late"}), ShouldBeNil)
					got, _ := s.Get(ctx, "r1")
					So(got.Results[0].Error, ShouldBeEmpty)
				})
			})

			Convey("And a result has a bad index", func() {
				err := s.RecordResult(ctx, "r1", model.ReviewResult{Index: 3})
				So(errors.Is(err, ErrInvalidIndex), ShouldBeTrue)
			})

			Convey("And the review is deleted", func() {
				So(s.Delete(ctx, "r1"), ShouldBeNil)
				_, err := s.Get(ctx, "r1")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(s.Delete(ctx, "r1"), ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an unknown review is touched", func() {
			_, err := s.Get(ctx, "missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(s.RecordResult(ctx, "missing", model.ReviewResult{}), ErrNotFound), ShouldBeTrue)
		})

		Convey("When a review has no shots", func() {
			_, _, err := s.Create(ctx, model.Review{ID: "empty"})
			So(errors.Is(err, ErrEmptyReview), ShouldBeTrue)
		})
	})

	Convey("Given a store capped at two reviews", t, func() {
		s := NewMemoryStore(WithMaxReviews(2))
		for i := 1; i <= 3; i++ {
			_, _, err := s.Create(ctx, newReview(fmt.Sprintf("r%d", i), 1))
			So(err, ShouldBeNil)
		}

		Convey("Then the oldest review is dropped", func() {
			So(s.Count(ctx), ShouldEqual, 2)
			_, err := s.Get(ctx, "r1")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Then List returns newest first", func() {
			list, err := s.List(ctx, 10)
			So(err, ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0].ID, ShouldEqual, "r3")
			So(list[1].ID, ShouldEqual, "r2")
			So(list[0].Results, ShouldBeNil)

			_, err = s.List(ctx, 0)
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})
	})

	Convey("Given concurrent result writers", t, func() {
		s := NewMemoryStore()
		_, _, err := s.Create(ctx, newReview("busy", 50))
		So(err, ShouldBeNil)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.RecordResult(ctx, "busy", model.ReviewResult{Index: i, Advice: advice(0.4, 0.35)})
			}(i)
		}
		wg.Wait()

		got, err := s.Get(ctx, "busy")
		So(err, ShouldBeNil)
		So(got.Status, ShouldEqual, model.ReviewComplete)
		So(got.Summary.Takes, ShouldEqual, 50)
	})
}
