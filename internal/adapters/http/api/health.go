package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/shotcall/pkg/metrics"
)

var features = []string{
	"ML-based shot prediction",
	"Defender impact modeling (continuous + discrete)",
	"Shot quality breakdown with defensive pressure",
	"Natural language coach feedback system",
	"Action-based recommendations for PASS decisions",
	"Confidence scoring for recommended actions",
	"Contest-aware decision thresholds",
	"Batch film reviews with XLSX reports",
	"Historical shot-chart sampling",
}

var endpoints = map[string]string{
	"/predict-shot":         "POST - Predict shot selection advice with coach feedback and action recommendations",
	"/health":               "GET - Health check",
	"/healthz":              "GET - Prometheus metrics",
	"/stats":                "GET - Service statistics",
	"/defender-impact-demo": "GET - Demo defender impact calculations",
	"/defender-impact":      "GET - Defender impact for one distance and contest level",
	"/feedback-examples":    "GET - Demo coach feedback system",
	"/action-examples":      "GET - Demo action recommendation system",
	"/confidence-examples":  "GET - Demo action confidence scoring",
	"/shots/sample":         "GET - Sample historical shot locations",
	"/shots/metadata":       "GET - Shot-chart data bounds and categories",
	"/reviews":              "POST - Submit a batch film review; GET - List recent reviews",
	"/reviews/{id}":         "GET - Review status, results and summary",
	"/reviews/{id}/report":  "GET - Review workbook (XLSX)",
	"/api-docs":             "GET - API documentation",
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Shot Selection Advisory API",
		"version":   Version,
		"features":  features,
		"endpoints": endpoints,
	})
}

// handleHealth handles GET /health. The status is not_ready while the
// service is stopped or the remote model's breaker is open.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.deps.Ready() {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "not_ready",
			"message": "Scorer unavailable. Check the model server or restart the service.",
			"version": Version,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "API is ready with defender modeling, coach feedback, action recommendations, and confidence scoring",
		"version": Version,
	})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.GetStats())
}

// metricsHandler serves the custom Prometheus registry.
func metricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
