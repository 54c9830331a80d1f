// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/shotcall/internal/adapters/shotdata"
	"github.com/okian/shotcall/internal/domain/advisory"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/pkg/logger"
)

const (
	// Version is reported by / and /health.
	Version = "3.3-action-confidence"

	defaultMaxBodyBytes = 1 << 20
	defaultReviewLimit  = 20
)

// Advisor evaluates single shots.
type Advisor interface {
	Evaluate(ctx context.Context, req model.ShotRequest) (model.Advice, error)
	Engine() *advisory.Engine
	Ready() bool
}

// Reviews manages batch film reviews.
type Reviews interface {
	SubmitReview(ctx context.Context, id string, shots []model.ShotRequest) (model.Review, bool, error)
	Review(ctx context.Context, id string) (model.Review, error)
	ListReviews(ctx context.Context, limit int) ([]model.Review, error)
	WriteReviewReport(ctx context.Context, id string, w io.Writer) error
}

// ShotData serves the historical shot-chart cache.
type ShotData interface {
	SampleShots(ctx context.Context, f shotdata.Filter) ([]shotdata.Point, error)
	ShotMetadata(ctx context.Context) (shotdata.Metadata, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Advisor
	Reviews
	ShotData
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps         Dependencies
	validate     *validator.Validate
	maxBodyBytes int64
	logger       logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		validate:     newValidator(),
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /{$}", "root", s.handleRoot)
	route("GET /health", "health", s.handleHealth)
	mux.Handle("GET /healthz", metricsHandler())
	route("GET /stats", "stats", s.handleStats)

	route("POST /predict-shot", "predict_shot", s.handlePredict)

	route("GET /defender-impact-demo", "defender_impact_demo", s.handleDefenderDemo)
	route("GET /defender-impact", "defender_impact", s.handleDefenderImpact)
	route("GET /feedback-examples", "feedback_examples", s.handleFeedbackExamples)
	route("GET /action-examples", "action_examples", s.handleActionExamples)
	route("GET /confidence-examples", "confidence_examples", s.handleConfidenceExamples)

	route("GET /shots/sample", "shots_sample", s.handleShotSample)
	route("GET /shots/metadata", "shots_metadata", s.handleShotMetadata)

	route("POST /reviews", "reviews_create", s.handleCreateReview)
	route("GET /reviews", "reviews_list", s.handleListReviews)
	route("GET /reviews/{id}", "reviews_get", s.handleGetReview)
	route("GET /reviews/{id}/report", "reviews_report", s.handleReviewReport)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err, logs server-side failures and writes the error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	err = Classify(op, err)
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return WrapKind(op, ErrBadRequest, describeValidation(err))
	}
	return nil
}
