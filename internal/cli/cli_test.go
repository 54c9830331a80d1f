package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/shotcall/internal/adapters/http/api"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAdviseCommand(t *testing.T) {
	Convey("Given the advise command", t, func() {
		Convey("When a tight corner three is evaluated with a supplied base", func() {
			out, _, err := execute("advise",
				"--zone", "Right Corner 3", "--shot-type", "3PT",
				"--distance", "23.5", "--loc-x", "22", "--loc-y", "2",
				"--quarter", "2", "--secs", "14",
				"--defender", "2.2", "--contest", "TIGHT", "--base", "0.33",
			)
			So(err, ShouldBeNil)

			var advice model.Advice
			So(json.Unmarshal([]byte(out), &advice), ShouldBeNil)

			Convey("Then the advice is a PASS with an action", func() {
				So(advice.Decision, ShouldEqual, types.DecisionPass)
				So(advice.ProbabilitySource, ShouldEqual, "request")
				So(advice.RecommendedAction, ShouldNotBeEmpty)
			})
		})

		Convey("When no base is given the local model scores the shot", func() {
			out, _, err := execute("advise", "--zone", "Restricted Area", "--shot-type", "2PT Field Goal", "--distance", "2", "--mins", "6")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"probability_source": "logistic"`)
		})

		Convey("When the zone is missing", func() {
			_, _, err := execute("advise", "--shot-type", "2PT")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "zone")
		})

		Convey("When the shot type is unknown", func() {
			_, _, err := execute("advise", "--shot-type", "hook", "--zone", "Mid-Range")
			So(err, ShouldNotBeNil)
		})

		Convey("When the base is not a probability", func() {
			_, _, err := execute("advise", "--shot-type", "2PT", "--zone", "Mid-Range", "--base", "2")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDefenderCommand(t *testing.T) {
	Convey("Given the defender command", t, func() {
		out, _, err := execute("defender", "--contest", "WIDE_OPEN", "--max", "10")
		So(err, ShouldBeNil)

		lines := strings.Split(strings.TrimSpace(out), "\n")

		Convey("Then there is a header and one row per foot", func() {
			So(lines, ShouldHaveLength, 12)
			So(lines[0], ShouldContainSubstring, "distance_ft")
		})

		Convey("Then the impact shrinks with distance", func() {
			So(lines[1], ShouldContainSubstring, "-")
			So(lines[11], ShouldContainSubstring, "%")
		})

		Convey("When the base is out of range", func() {
			_, _, err := execute("defender", "--base=-0.1")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestReviewCommand(t *testing.T) {
	Convey("Given a CSV of shots", t, func() {
		dir := t.TempDir()
		in := filepath.Join(dir, "game7.csv")
		csv := "shot_distance,loc_x,loc_y,shot_type,zone,quarter,mins_left,secs_left,defender_distance,contest_level,base_probability\n" +
			"23.5,22,2,3PT Field Goal,Right Corner 3,2,0,14,2.2,TIGHT,0.33\n" +
			"2,0,2,2PT Field Goal,Restricted Area,1,8,0,,,0.62\n"
		So(os.WriteFile(in, []byte(csv), 0o600), ShouldBeNil)

		Convey("When it is reviewed", func() {
			out, stderr, err := execute("review", in)
			So(err, ShouldBeNil)

			Convey("Then the workbook is written next to the input", func() {
				_, statErr := os.Stat(filepath.Join(dir, "game7-review.xlsx"))
				So(statErr, ShouldBeNil)
				So(stderr, ShouldContainSubstring, "game7-review.xlsx")
			})

			Convey("Then the summary counts both shots", func() {
				var summary model.ReviewSummary
				So(json.Unmarshal([]byte(out), &summary), ShouldBeNil)
				So(summary.Completed, ShouldEqual, 2)
				So(summary.Takes, ShouldEqual, 1)
				So(summary.Passes, ShouldEqual, 1)
			})
		})

		Convey("When an output path is given", func() {
			target := filepath.Join(dir, "out.xlsx")
			_, _, err := execute("review", in, "--out", target)
			So(err, ShouldBeNil)
			_, statErr := os.Stat(target)
			So(statErr, ShouldBeNil)
		})

		Convey("When the file type is unsupported", func() {
			_, _, err := execute("review", filepath.Join(dir, "game7.txt"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDrillCommand(t *testing.T) {
	Convey("Given a running server", t, func() {
		svc := service.New(service.WithWorkerCount(1), service.WithShotData(shotdata.NewCache(t.TempDir())))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		out, _, err := execute("drill", "--url", srv.URL, "--shots", "20", "--workers", "2", "--review-shots", "0", "--seed", "3")
		So(err, ShouldBeNil)
		So(out, ShouldContainSubstring, "submitted=20")
		So(out, ShouldContainSubstring, "violations=0")
	})
}
