// Package service wires the advisory engine, scorers, shot-chart cache and the
// review pipeline into the operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	eventqueue "github.com/okian/shotcall/internal/adapters/mq/queue"
	workerpool "github.com/okian/shotcall/internal/adapters/mq/worker"
	"github.com/okian/shotcall/internal/adapters/report"
	repository "github.com/okian/shotcall/internal/adapters/repository"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	"github.com/okian/shotcall/internal/domain/advisory"
	"github.com/okian/shotcall/internal/domain/dedupe"
	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/scoring"
	"github.com/okian/shotcall/internal/domain/types"
	"github.com/okian/shotcall/pkg/logger"
	"github.com/okian/shotcall/pkg/metrics"
)

const (
	defaultMaxReviewShots = 500
	defaultStopTimeout    = 5 * time.Second
)

// Service implements the API dependencies for the advisory service.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine  *advisory.Engine
	scorer  scoring.Scorer
	remote  *scoring.RemoteScorer
	shots   *shotdata.Cache
	reviews repository.Store
	deduper dedupe.Deduper
	queue   *eventqueue.InMemoryQueue
	pool    *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxReviewShots   int
	maxReviews       int
	taskTimeout      time.Duration
	modelFile        string
	zonePriorWeight  float64
	predictorURL     string
	predictorTimeout time.Duration
	predictorRetries int

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. The engine and the default logistic scorer are
// ready immediately; the review pipeline and configured scorers come up in Start.
func New(opts ...Option) *Service {
	s := &Service{
		engine:           advisory.NewEngine(),
		scorer:           scoring.NewLogisticScorer(),
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       10_000,
		maxReviewShots:   defaultMaxReviewShots,
		predictorRetries: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shots == nil {
		s.shots = shotdata.NewCache("data")
	}
	return s
}

// Start loads the scorer configuration and starts the review pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting advisory service...")

	scorer, err := s.buildScorer(ctx)
	if err != nil {
		return err
	}
	s.scorer = scorer

	if s.reviews == nil {
		s.reviews = repository.NewMemoryStore(repository.WithMaxReviews(s.maxReviews))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	var wopts []workerpool.Option
	if s.taskTimeout > 0 {
		wopts = append(wopts, workerpool.WithTaskTimeout(s.taskTimeout))
	}
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.reviews, wopts...)

	// Workers outlive the start context; Stop cancels them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "advisory service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("scorer", s.scorerName()),
	)
	return nil
}

func (s *Service) buildScorer(ctx context.Context) (scoring.Scorer, error) {
	var lopts []scoring.Option
	if s.modelFile != "" {
		coef, err := scoring.LoadCoefficients(s.modelFile)
		if err != nil {
			return nil, fmt.Errorf("load model file: %w", err)
		}
		lopts = append(lopts, scoring.WithCoefficients(coef))
		s.logger.Info(ctx, "loaded model coefficients", logger.String("path", s.modelFile))
	}
	if s.zonePriorWeight > 0 {
		rates, err := s.shots.ZoneRates(ctx)
		if err != nil {
			s.logger.Warn(ctx, "zone prior disabled, shot data unavailable",
				logger.String("dir", s.shots.Dir()),
				logger.Error(err),
			)
		} else {
			lopts = append(lopts, scoring.WithZonePrior(rates, s.zonePriorWeight))
		}
	}
	local := scoring.NewLogisticScorer(lopts...)
	if s.predictorURL == "" {
		return local, nil
	}

	ropts := []scoring.RemoteOption{
		scoring.WithStateChangeHook(func(from, to gobreaker.State) {
			metrics.UpdateBreakerState(int(to))
			s.logger.Warn(context.Background(), "model server breaker state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
	if s.predictorTimeout > 0 {
		ropts = append(ropts, scoring.WithTimeout(s.predictorTimeout))
	}
	if s.predictorRetries >= 0 {
		ropts = append(ropts, scoring.WithRetries(s.predictorRetries))
	}
	s.remote = scoring.NewRemoteScorer(s.predictorURL, ropts...)
	metrics.UpdateBreakerState(int(gobreaker.StateClosed))

	return scoring.NewFallbackScorer(s.remote, local, func(err error) {
		metrics.RecordScorerFallback()
		s.logger.Warn(context.Background(), "remote scorer failed, using local model", logger.Error(err))
	}), nil
}

// Stop gracefully shuts down the service, draining queued review shots for a
// bounded time.
func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()
	_ = s.Shutdown(ctx)
}

// Shutdown stops accepting reviews and drains the queue until ctx expires.
// The lock is released before draining: workers evaluate through Evaluate,
// which reads the scorer under s.mu.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	pool, cancel := s.pool, s.cancel
	s.started = false
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping advisory service...")

	err := pool.Shutdown(ctx)
	if err != nil {
		s.logger.Warn(ctx, "review queue not fully drained", logger.Error(err))
	}
	cancel()

	s.logger.Info(ctx, "advisory service stopped")
	return err
}

// Engine exposes the rule chain for demo endpoints.
func (s *Service) Engine() *advisory.Engine { return s.engine }

// Evaluate scores req and runs it through the rule chain. A caller supplied
// base probability bypasses the scorer.
func (s *Service) Evaluate(ctx context.Context, req model.ShotRequest) (model.Advice, error) {
	shot := req.ToShot()

	base, source, err := s.baseProbability(ctx, req, shot)
	if err != nil {
		return model.Advice{}, err
	}

	advice := s.engine.Evaluate(base, shot, types.ParseExplanationMode(req.ExplanationMode))
	advice.ProbabilitySource = source

	metrics.RecordAdvice(string(advice.Decision), string(shot.Zone), advice.MakeProbability)
	if advice.RecommendedAction != "" {
		metrics.RecordAction(string(advice.RecommendedAction))
	}
	return advice, nil
}

func (s *Service) baseProbability(ctx context.Context, req model.ShotRequest, shot model.Shot) (float64, string, error) {
	if req.BaseProbability != nil {
		return *req.BaseProbability, scoring.SourceRequest, nil
	}

	s.mu.RLock()
	scorer := s.scorer
	s.mu.RUnlock()

	start := time.Now()
	res, err := scorer.Score(ctx, shot)
	if err != nil {
		metrics.RecordScorerError(s.scorerName())
		return 0, "", fmt.Errorf("score shot: %w", err)
	}
	metrics.RecordScorerLatency(res.Source, float64(time.Since(start).Microseconds())/1000)
	return res.Probability, res.Source, nil
}

func (s *Service) scorerName() string {
	if s.remote != nil {
		return scoring.SourceRemote
	}
	return scoring.SourceLogistic
}

// Ready reports whether the service is started and its primary scorer is
// serving. The local model always serves.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false
	}
	if s.remote != nil {
		return s.remote.Available()
	}
	return true
}

// SubmitReview stores a review and queues each shot for evaluation. An empty
// id is replaced by a generated one. Resubmitting a known id returns the
// existing review with created=false.
func (s *Service) SubmitReview(ctx context.Context, id string, shots []model.ShotRequest) (model.Review, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Review{}, false, ErrNotStarted
	}
	if len(shots) == 0 {
		return model.Review{}, false, fmt.Errorf("%w: no shots", ErrInvalidReview)
	}
	if len(shots) > s.maxReviewShots {
		return model.Review{}, false, fmt.Errorf("%w: %d shots exceeds limit of %d", ErrInvalidReview, len(shots), s.maxReviewShots)
	}
	if id == "" {
		id = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordReviewDuplicate()
		if existing, err := s.reviews.Get(ctx, id); err == nil {
			s.logger.Debug(ctx, "duplicate review submission", logger.String("review_id", id))
			return existing, false, nil
		}
		// Evicted from the store but still remembered; accept it again.
	}

	stored, created, err := s.reviews.Create(ctx, model.Review{ID: id, Shots: shots})
	if err != nil {
		s.deduper.Unrecord(ctx, id)
		return model.Review{}, false, fmt.Errorf("create review: %w", err)
	}
	if !created {
		return stored, false, nil
	}

	now := time.Now()
	tasks := make([]eventqueue.Task, len(shots))
	for i, shot := range shots {
		tasks[i] = eventqueue.Task{ReviewID: id, Index: i, Request: shot, EnqueuedAt: now}
	}
	if err := s.queue.EnqueueAll(ctx, tasks); err != nil {
		_ = s.reviews.Delete(ctx, id)
		s.deduper.Unrecord(ctx, id)
		if errors.Is(err, eventqueue.ErrFull) || errors.Is(err, eventqueue.ErrClosed) {
			return model.Review{}, false, fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return model.Review{}, false, fmt.Errorf("enqueue review: %w", err)
	}

	metrics.RecordReviewSubmitted()
	s.logger.Info(ctx, "review queued",
		logger.String("review_id", id),
		logger.Int("shots", len(shots)),
	)
	return stored, true, nil
}

// Review returns the current state of a review.
func (s *Service) Review(ctx context.Context, id string) (model.Review, error) {
	store, err := s.store()
	if err != nil {
		return model.Review{}, err
	}
	r, err := store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, id)
	}
	return r, err
}

// ListReviews returns up to limit reviews, newest first.
func (s *Service) ListReviews(ctx context.Context, limit int) ([]model.Review, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.List(ctx, limit)
}

// WriteReviewReport streams the review workbook to w.
func (s *Service) WriteReviewReport(ctx context.Context, id string, w io.Writer) error {
	r, err := s.Review(ctx, id)
	if err != nil {
		return err
	}
	return report.WriteReview(w, r)
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.reviews == nil {
		return nil, ErrNotStarted
	}
	return s.reviews, nil
}

// SampleShots returns shot-chart points matching f.
func (s *Service) SampleShots(ctx context.Context, f shotdata.Filter) ([]shotdata.Point, error) {
	return s.shots.Sample(ctx, f)
}

// ShotMetadata describes the loaded shot-chart data.
func (s *Service) ShotMetadata(ctx context.Context) (shotdata.Metadata, error) {
	return s.shots.Metadata(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"maxReviewShots": s.maxReviewShots,
		"scorer":         s.scorerName(),
		"shotDataLoaded": s.shots.Loaded(),
	}
	if s.remote != nil {
		stats["breakerState"] = s.remote.State().String()
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["reviews"] = s.reviews.Count(ctx)
		stats["reviewIdsSeen"] = s.deduper.Size()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}
