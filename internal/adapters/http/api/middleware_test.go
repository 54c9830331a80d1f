package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/shotcall/internal/adapters/http/api"
	"github.com/okian/shotcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(api.RequestIDFrom(r.Context())))
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		h := api.RequestID()(okHandler())

		Convey("When no id is sent", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			Convey("Then one is generated and exposed to the handler", func() {
				id := w.Header().Get(api.RequestIDHeader)
				So(id, ShouldHaveLength, 36)
				So(w.Body.String(), ShouldEqual, id)
			})
		})

		Convey("When the caller sends an id", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			So(w.Body.String(), ShouldEqual, "abc-123")
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a limiter with a burst of one", t, func() {
		h := api.RateLimit(0.001, 1)(okHandler())

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest("GET", "/stats", nil))
		So(first.Code, ShouldEqual, http.StatusOK)

		Convey("Then the next request is rejected", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Header().Get("Retry-After"), ShouldEqual, "1")
		})

		Convey("Then health probes are never limited", func() {
			for range 3 {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
				So(w.Code, ShouldEqual, http.StatusOK)
			}
		})
	})

	Convey("Given a non-positive rate", t, func() {
		h := api.RateLimit(0, 0)(okHandler())
		for range 5 {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
		}
	})
}

func TestCORS(t *testing.T) {
	Convey("Given CORS for one origin", t, func() {
		h := api.CORS([]string{"https://court.example"})(okHandler())

		Convey("When the allowed origin calls", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", "https://court.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://court.example")
		})

		Convey("When another origin calls", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", "https://elsewhere.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}

func TestChain(t *testing.T) {
	Convey("Given a chained handler", t, func() {
		h := api.Chain(okHandler(), api.RequestID(), api.AccessLog(logger.Get()), api.RateLimit(100, 10))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Body.String(), ShouldEqual, w.Header().Get(api.RequestIDHeader))
	})
}
