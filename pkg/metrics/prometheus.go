// Package metrics provides Prometheus metrics for the shotcall advisory service.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Advice
	adviceTotal     *prometheus.CounterVec
	makeProbability prometheus.Histogram
	actionsTotal    *prometheus.CounterVec

	// Scoring
	scorerLatency   *prometheus.HistogramVec
	scorerErrors    *prometheus.CounterVec
	scorerFallbacks prometheus.Counter
	breakerState    prometheus.Gauge

	// Reviews
	reviewsSubmitted   prometheus.Counter
	reviewsDuplicate   prometheus.Counter
	reviewShots        *prometheus.CounterVec
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge
	workerActive       prometheus.Gauge
	workerLatency      prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	// Shot data
	shotDataRows     prometheus.Gauge
	shotDataLoadTime prometheus.Gauge

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shotcall",
		subsystem:        "advisory",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	msBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

	m.adviceTotal = m.counterVec("advice_total", "Advice responses by decision and zone", "decision", "zone")
	m.makeProbability = m.histogram("make_probability", "Distribution of adjusted make probabilities",
		prometheus.LinearBuckets(0.05, 0.05, 19))
	m.actionsTotal = m.counterVec("actions_total", "Recommended next actions on PASS decisions", "action")

	m.scorerLatency = m.histogramVec("scorer_latency_milliseconds", "Base probability scoring latency", msBuckets, "source")
	m.scorerErrors = m.counterVec("scorer_errors_total", "Base probability scoring failures", "source")
	m.scorerFallbacks = m.counter("scorer_fallbacks_total", "Requests served by the fallback scorer")
	m.breakerState = m.gauge("model_breaker_state", "Model server circuit breaker state (0 closed, 1 half-open, 2 open)")

	m.reviewsSubmitted = m.counter("reviews_submitted_total", "Film reviews accepted")
	m.reviewsDuplicate = m.counter("reviews_duplicate_total", "Film review submissions for an existing review id")
	m.reviewShots = m.counterVec("review_shots_total", "Review shots processed by outcome", "outcome")
	m.queueSize = m.gauge("queue_size", "Review tasks waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Review queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Review tasks enqueued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Review tasks rejected because the queue was full")
	m.workerCount = m.gauge("worker_count", "Review workers")
	m.workerActive = m.gauge("worker_active", "Review workers currently evaluating a shot")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Time to evaluate one review shot", msBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request latency",
		m.histogramBuckets, "endpoint", "method", "status_code")
	m.rateLimited = m.counter("rate_limited_total", "Requests rejected by the rate limiter")

	m.shotDataRows = m.gauge("shotdata_rows", "Shot chart rows held in the cache")
	m.shotDataLoadTime = m.gauge("shotdata_load_seconds", "Duration of the last shot chart load")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordAdvice records an advice response.
func RecordAdvice(decision, zone string, makeProbability float64) {
	globalManager.adviceTotal.WithLabelValues(decision, zone).Inc()
	globalManager.makeProbability.Observe(makeProbability)
}

// RecordAction records a recommended next action.
func RecordAction(action string) {
	globalManager.actionsTotal.WithLabelValues(action).Inc()
}

// RecordScorerLatency records base probability scoring latency in milliseconds.
func RecordScorerLatency(source string, latencyMs float64) {
	globalManager.scorerLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordScorerError records a scoring failure.
func RecordScorerError(source string) {
	globalManager.scorerErrors.WithLabelValues(source).Inc()
}

// RecordScorerFallback records a request served by the fallback scorer.
func RecordScorerFallback() {
	globalManager.scorerFallbacks.Inc()
}

// UpdateBreakerState sets the model server breaker state.
func UpdateBreakerState(state int) {
	globalManager.breakerState.Set(float64(state))
}

// RecordReviewSubmitted records an accepted review.
func RecordReviewSubmitted() {
	globalManager.reviewsSubmitted.Inc()
}

// RecordReviewDuplicate records a resubmitted review id.
func RecordReviewDuplicate() {
	globalManager.reviewsDuplicate.Inc()
}

// RecordReviewShot records a processed review shot; outcome is "ok" or "error".
func RecordReviewShot(outcome string) {
	globalManager.reviewShots.WithLabelValues(outcome).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue records an enqueued task.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueEnqueueError records a rejected task.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerActive adjusts the number of busy workers.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerProcessingLatency records the time to evaluate one review shot.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// UpdateShotData records the size and load time of the shot chart cache.
func UpdateShotData(rows int, loadSeconds float64) {
	globalManager.shotDataRows.Set(float64(rows))
	globalManager.shotDataLoadTime.Set(loadSeconds)
}

// RecordError records an error for a component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// CollectSystem samples heap usage and goroutine count.
func CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.Alloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
