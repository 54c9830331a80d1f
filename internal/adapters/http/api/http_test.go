package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/shotcall/internal/adapters/http/api"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/advisory"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	engine    *advisory.Engine
	ready     bool
	evalErr   error
	reviews   map[string]model.Review
	submitErr error
	points    []shotdata.Point
	shotErr   error
	lastShots []model.ShotRequest
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		engine:  advisory.NewEngine(),
		ready:   true,
		reviews: map[string]model.Review{},
		points:  []shotdata.Point{{X: 1, Y: 2, Made: true}, {X: -3, Y: 20}},
	}
}

func (m *mockDependencies) Evaluate(_ context.Context, req model.ShotRequest) (model.Advice, error) {
	if m.evalErr != nil {
		return model.Advice{}, m.evalErr
	}
	base := 0.4
	if req.BaseProbability != nil {
		base = *req.BaseProbability
	}
	return m.engine.Evaluate(base, req.ToShot(), types.ParseExplanationMode(req.ExplanationMode)), nil
}

func (m *mockDependencies) Engine() *advisory.Engine { return m.engine }
func (m *mockDependencies) Ready() bool              { return m.ready }

func (m *mockDependencies) SubmitReview(_ context.Context, id string, shots []model.ShotRequest) (model.Review, bool, error) {
	if m.submitErr != nil {
		return model.Review{}, false, m.submitErr
	}
	m.lastShots = shots
	if id == "" {
		id = "generated"
	}
	if r, ok := m.reviews[id]; ok {
		return r, false, nil
	}
	r := model.Review{ID: id, Status: model.ReviewPending, Total: len(shots), Shots: shots}
	m.reviews[id] = r
	return r, true, nil
}

func (m *mockDependencies) Review(_ context.Context, id string) (model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return model.Review{}, fmt.Errorf("%w: %s", service.ErrReviewNotFound, id)
	}
	return r, nil
}

func (m *mockDependencies) ListReviews(_ context.Context, limit int) ([]model.Review, error) {
	out := make([]model.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockDependencies) WriteReviewReport(ctx context.Context, id string, w io.Writer) error {
	if _, err := m.Review(ctx, id); err != nil {
		return err
	}
	_, err := w.Write([]byte("PK-workbook"))
	return err
}

func (m *mockDependencies) SampleShots(_ context.Context, f shotdata.Filter) ([]shotdata.Point, error) {
	if m.shotErr != nil {
		return nil, m.shotErr
	}
	if f.Limit > 0 && f.Limit < len(m.points) {
		return m.points[:f.Limit], nil
	}
	return m.points, nil
}

func (m *mockDependencies) ShotMetadata(context.Context) (shotdata.Metadata, error) {
	if m.shotErr != nil {
		return shotdata.Metadata{}, m.shotErr
	}
	return shotdata.Metadata{Count: len(m.points), DataDir: "data"}, nil
}

func (m *mockDependencies) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps *mockDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

const cornerThree = `{
	"shot_distance": 23.5, "loc_x": 22, "loc_y": 2,
	"shot_type": "3PT Field Goal", "zone": "Right Corner 3",
	"quarter": 2, "mins_left": 0, "secs_left": 14,
	"defender_distance": 2.2, "contest_level": "TIGHT", "base_probability": 0.33
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("Then the root endpoint describes the service", func() {
			w := do(mux, "GET", "/", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decodeBody(w)
			So(body["message"], ShouldEqual, "Shot Selection Advisory API")
			So(body["version"], ShouldEqual, api.Version)
			So(body["endpoints"], ShouldContainKey, "/predict-shot")
		})

		Convey("And unknown paths are not found", func() {
			w := do(mux, "GET", "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the metrics endpoint is served", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats are served", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["started"], ShouldEqual, true)
		})

		Convey("And health reflects readiness", func() {
			So(decodeBody(do(mux, "GET", "/health", ""))["status"], ShouldEqual, "ready")
			deps.ready = false
			So(decodeBody(do(mux, "GET", "/health", ""))["status"], ShouldEqual, "not_ready")
		})
	})
}

func TestPredictShot(t *testing.T) {
	Convey("Given the predict endpoint", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When a tight corner three is posted", func() {
			w := do(mux, "POST", "/predict-shot", cornerThree)

			Convey("Then a PASS with an action is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(w)
				So(body["decision"], ShouldEqual, "PASS")
				So(body["recommended_action"], ShouldNotBeEmpty)
				So(body["action_confidence"], ShouldNotBeNil)
				So(body["explanation"], ShouldNotBeEmpty)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, "POST", "/predict-shot", "{")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the shot type is unknown", func() {
			bad := strings.Replace(cornerThree, "3PT Field Goal", "Free Throw", 1)
			w := do(mux, "POST", "/predict-shot", bad)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["message"], ShouldContainSubstring, "shot_type")
		})

		Convey("When the quarter is missing", func() {
			bad := strings.Replace(cornerThree, `"quarter": 2,`, "", 1)
			w := do(mux, "POST", "/predict-shot", bad)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["message"], ShouldContainSubstring, "quarter")
		})

		Convey("When the explanation mode is unknown", func() {
			bad := strings.Replace(cornerThree, `"base_probability": 0.33`, `"explanation_mode": "verbose"`, 1)
			w := do(mux, "POST", "/predict-shot", bad)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is wrong", func() {
			w := do(mux, "GET", "/predict-shot", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When the scorer is unavailable", func() {
			deps.evalErr = service.ErrNotStarted
			w := do(mux, "POST", "/predict-shot", cornerThree)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestDemoEndpoints(t *testing.T) {
	Convey("Given the demo endpoints", t, func() {
		mux := newMux(newMockDependencies())

		for _, path := range []string{"/defender-impact-demo", "/feedback-examples", "/action-examples", "/confidence-examples"} {
			w := do(mux, "GET", path, "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["message"], ShouldNotBeEmpty)
		}

		Convey("When the action examples are fetched", func() {
			body := decodeBody(do(mux, "GET", "/action-examples", ""))
			scenarios, _ := body["scenarios"].([]any)
			So(scenarios, ShouldHaveLength, 5)
			first, _ := scenarios[0].(map[string]any)
			rec, _ := first["recommendation"].(map[string]any)
			So(rec["action"], ShouldEqual, "Attack the Closeout")
		})

		Convey("When a single defender impact is requested", func() {
			w := do(mux, "GET", "/defender-impact?distance=15&contest=WIDE_OPEN&base=0.4", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decodeBody(w)
			So(body["adjusted_probability"], ShouldAlmostEqual, 0.3968, 0.0001)
			So(body["contest_level"], ShouldEqual, "WIDE_OPEN")
		})

		Convey("When no defender data is given", func() {
			body := decodeBody(do(mux, "GET", "/defender-impact", ""))
			So(body["adjusted_probability"], ShouldEqual, 0.4)
			So(body["explanation"], ShouldContainSubstring, "No defender data")
		})

		Convey("When the base is not a probability", func() {
			w := do(mux, "GET", "/defender-impact?base=1.5", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestShotEndpoints(t *testing.T) {
	Convey("Given the shot data endpoints", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When sampling with a limit", func() {
			w := do(mux, "GET", "/shots/sample?limit=1&made=made", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["count"], ShouldEqual, 1.0)
		})

		Convey("When the filter is invalid", func() {
			So(do(mux, "GET", "/shots/sample?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "GET", "/shots/sample?made=maybe", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the data directory is missing", func() {
			deps.shotErr = shotdata.ErrDataDirNotFound
			So(do(mux, "GET", "/shots/sample", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, "GET", "/shots/metadata", "").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When metadata is requested", func() {
			w := do(mux, "GET", "/shots/metadata", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w)["count"], ShouldEqual, 2.0)
		})
	})
}

func TestReviewEndpoints(t *testing.T) {
	Convey("Given the review endpoints", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)
		body := fmt.Sprintf(`{"review_id": "film-7", "shots": [%s, %s]}`, cornerThree, cornerThree)

		Convey("When a review is submitted", func() {
			w := do(mux, "POST", "/reviews", body)

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Header().Get("Location"), ShouldEqual, "/reviews/film-7")
				So(decodeBody(w)["review_id"], ShouldEqual, "film-7")
				So(deps.lastShots, ShouldHaveLength, 2)
			})

			Convey("And resubmitting returns the existing review", func() {
				again := do(mux, "POST", "/reviews", body)
				So(again.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And it can be fetched and listed", func() {
				So(do(mux, "GET", "/reviews/film-7", "").Code, ShouldEqual, http.StatusOK)
				list := decodeBody(do(mux, "GET", "/reviews?limit=5", ""))
				So(list["count"], ShouldEqual, 1.0)
			})

			Convey("And the report is an attachment", func() {
				rep := do(mux, "GET", "/reviews/film-7/report", "")
				So(rep.Code, ShouldEqual, http.StatusOK)
				So(rep.Header().Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
				So(rep.Header().Get("Content-Disposition"), ShouldContainSubstring, "review-film-7.xlsx")
			})
		})

		Convey("When a review has no shots", func() {
			w := do(mux, "POST", "/reviews", `{"shots": []}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When one shot in the review is invalid", func() {
			bad := strings.Replace(cornerThree, "3PT Field Goal", "Hook", 1)
			w := do(mux, "POST", "/reviews", fmt.Sprintf(`{"shots": [%s, %s]}`, cornerThree, bad))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(w)["message"], ShouldContainSubstring, "shots[1]")
		})

		Convey("When the queue is full", func() {
			deps.submitErr = fmt.Errorf("%w: queue", service.ErrBusy)
			w := do(mux, "POST", "/reviews", body)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeBody(w)["code"], ShouldEqual, "backpressure")
		})

		Convey("When the review is too large", func() {
			deps.submitErr = fmt.Errorf("%w: too many", service.ErrInvalidReview)
			So(do(mux, "POST", "/reviews", body).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an unknown review is fetched", func() {
			So(do(mux, "GET", "/reviews/nope", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, "GET", "/reviews/nope/report", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the list limit is invalid", func() {
			So(do(mux, "GET", "/reviews?limit=-1", "").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
