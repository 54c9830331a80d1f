package drill_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/shotcall/internal/adapters/http/api"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/advisory"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
	"github.com/okian/shotcall/internal/drill"
	"github.com/okian/shotcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func ptr(v float64) *float64 { return &v }

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(256),
		service.WithShotData(shotdata.NewCache(t.TempDir())),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := drill.NewGenerator(7).Shots(50)
		b := drill.NewGenerator(7).Shots(50)

		Convey("Then they produce the same shots", func() {
			So(a, ShouldResemble, b)
		})

		Convey("Then every shot type matches its zone", func() {
			for _, s := range a {
				zone, ok := types.ParseZone(s.Zone)
				So(ok, ShouldBeTrue)
				st, ok := types.ParseShotType(s.ShotType)
				So(ok, ShouldBeTrue)
				So(st.IsThree(), ShouldEqual, zone.IsThreePoint())
				So(s.Quarter, ShouldBeBetweenOrEqual, 1, 4)
				So(s.LocY, ShouldBeGreaterThanOrEqualTo, 0)
			}
		})
	})
}

func TestCheck(t *testing.T) {
	Convey("Given advice from the engine", t, func() {
		engine := advisory.NewEngine()
		req := model.ShotRequest{
			ShotDistance: 23.5, LocX: 22, LocY: 2,
			ShotType: string(types.ThreePoint), Zone: string(types.ZoneRightCorner3),
			Quarter: 2, SecsLeft: 14,
			DefenderDistance: ptr(2.2), ContestLevel: string(types.ContestTight),
			BaseProbability: ptr(0.33),
		}
		advice := engine.Evaluate(*req.BaseProbability, req.ToShot(), types.ModeFeedback)

		Convey("Then it passes every check", func() {
			So(advice.Decision, ShouldEqual, types.DecisionPass)
			So(drill.Check(req, advice), ShouldBeEmpty)
		})

		Convey("When the decision is flipped", func() {
			advice.Decision = types.DecisionTake
			problems := drill.Check(req, advice)
			So(problems, ShouldNotBeEmpty)
			So(problems[0], ShouldContainSubstring, "below threshold")
		})

		Convey("When the action fields are dropped from a PASS", func() {
			advice.RecommendedAction = ""
			So(drill.Check(req, advice), ShouldContain, "PASS without a complete action recommendation")
		})

		Convey("When the confidence is wrong", func() {
			advice.Confidence += 0.05
			So(drill.Check(req, advice), ShouldNotBeEmpty)
		})

		Convey("When the level does not match the score", func() {
			score := 0.9
			advice.ActionConfidence = &score
			advice.ConfidenceLevel = types.ConfidenceLow
			So(drill.Check(req, advice), ShouldNotBeEmpty)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running advisory server", t, func() {
		srv := startServer(t)
		out := filepath.Join(t.TempDir(), "shots", "drill.json")

		Convey("When a drill runs against it", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			stats, err := drill.Run(ctx, drill.Config{
				BaseURL:     srv.URL,
				Shots:       60,
				Workers:     4,
				ReviewShots: 10,
				Seed:        42,
				OutputFile:  out,
				PollTimeout: 10 * time.Second,
			})

			Convey("Then every answer is consistent", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 60)
				So(stats.Succeeded, ShouldEqual, 60)
				So(stats.Violations, ShouldEqual, 0)
				So(stats.Takes+stats.Passes, ShouldEqual, 60)
				So(stats.ReviewID, ShouldStartWith, "drill-")
			})

			Convey("Then the generated shots are saved", func() {
				_, statErr := os.Stat(out)
				So(statErr, ShouldBeNil)
			})
		})
	})

	Convey("Given a server that is not ready", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"not_ready"}`))
		}))
		defer srv.Close()

		_, err := drill.Run(context.Background(), drill.Config{BaseURL: srv.URL, Shots: 5, Timeout: time.Second})
		So(errors.Is(err, drill.ErrUnhealthy), ShouldBeTrue)
	})
}
