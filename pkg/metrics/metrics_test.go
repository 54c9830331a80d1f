package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry and options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.adviceTotal.WithLabelValues("PASS", "Mid-Range").Inc()

			Convey("Then metrics are registered under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(strings.Join(names, ","), ShouldContainSubstring, "test_unit_advice_total")
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording advice", func() {
			before := testutil.ToFloat64(globalManager.adviceTotal.WithLabelValues("TAKE SHOT", "Left Corner 3"))
			RecordAdvice("TAKE SHOT", "Left Corner 3", 0.49)
			RecordAction("Swing Pass")

			Convey("Then the decision counter increases", func() {
				So(testutil.ToFloat64(globalManager.adviceTotal.WithLabelValues("TAKE SHOT", "Left Corner 3")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.actionsTotal.WithLabelValues("Swing Pass")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording review pipeline metrics", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateWorkerCount(4)
			AddWorkerActive(2)
			AddWorkerActive(-1)

			Convey("Then gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 100)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.workerActive), ShouldEqual, 1)
			})
			AddWorkerActive(-1)
		})

		Convey("When recording scorer and shot data metrics", func() {
			So(func() {
				RecordScorerLatency("logistic", 0.2)
				RecordScorerError("remote")
				RecordScorerFallback()
				UpdateBreakerState(2)
				UpdateShotData(1200, 0.35)
				RecordReviewSubmitted()
				RecordReviewDuplicate()
				RecordReviewShot("ok")
				RecordQueueEnqueue()
				RecordQueueEnqueueError()
				RecordWorkerProcessingLatency(3)
				RecordHTTPRequest("/predict-shot", "POST", "200")
				RecordHTTPRequestDuration("/predict-shot", "POST", "200", 0.004)
				RecordRateLimited()
				RecordError("api", "validation")
				CollectSystem()
			}, ShouldNotPanic)

			So(testutil.ToFloat64(globalManager.breakerState), ShouldEqual, 2)
			So(testutil.ToFloat64(globalManager.shotDataRows), ShouldEqual, 1200)
			So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
