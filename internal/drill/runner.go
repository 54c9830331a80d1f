package drill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/shotcall/internal/domain/model"
	"github.com/okian/shotcall/internal/domain/types"
	"github.com/okian/shotcall/pkg/logger"
)

const (
	directoryPermission = 0750
	percentMultiplier   = 100
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type reviewRequest struct {
	ReviewID string              `json:"review_id"`
	Shots    []model.ShotRequest `json:"shots"`
}

// Run executes a complete drill: health check, concurrent shot submission
// with invariant checks, then one review submitted and polled to completion.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("drill")
	stats := Stats{StartTime: time.Now()}

	log.Info(ctx, "starting drill",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("shots", cfg.Shots),
		logger.Int("workers", cfg.Workers),
		logger.Int64("seed", int64(cfg.Seed)),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkHealth(ctx, c); err != nil {
		return stats, err
	}

	// Step 2: Generate shots
	shots := NewGenerator(cfg.Seed).Shots(cfg.Shots)
	stats.Generated = len(shots)
	if cfg.OutputFile != "" {
		if err := saveShots(cfg.OutputFile, shots); err != nil {
			log.Warn(ctx, "failed to save shots to file", logger.Error(err))
		}
	}

	// Step 3: Submit shots concurrently and check every answer
	if err := submitShots(ctx, c, cfg, shots, &stats, log); err != nil {
		return stats, err
	}

	// Step 4: Submit one review and wait for it
	var reviewErr error
	if cfg.ReviewShots > 0 {
		stats.ReviewID = "drill-" + uuid.NewString()
		reviewErr = runReview(ctx, c, cfg, stats.ReviewID, shots[:cfg.ReviewShots])
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, log, stats)

	var errs []error
	if stats.Violations > 0 {
		errs = append(errs, fmt.Errorf("%w: %d answers", ErrInvariant, stats.Violations))
	}
	if reviewErr != nil {
		errs = append(errs, reviewErr)
	}
	return stats, errors.Join(errs...)
}

// checkHealth verifies the service answers /health with status ready.
func checkHealth(ctx context.Context, c *client) error {
	var h healthResponse
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if h.Status != "ready" {
		return fmt.Errorf("%w: status %q", ErrUnhealthy, h.Status)
	}
	return nil
}

func submitShots(ctx context.Context, c *client, cfg Config, shots []model.ShotRequest, stats *Stats, log logger.Logger) error {
	var submitted, succeeded, failed, takes, passes, violations atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, shot := range shots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			submitted.Add(1)

			var advice model.Advice
			if _, err := c.postJSON(gctx, "/predict-shot", shot, &advice, http.StatusOK); err != nil {
				failed.Add(1)
				log.Debug(gctx, "shot request failed", logger.Int("shot", i), logger.Error(err))
				return nil
			}
			succeeded.Add(1)
			if advice.Decision == types.DecisionTake {
				takes.Add(1)
			} else {
				passes.Add(1)
			}

			if problems := Check(shot, advice); len(problems) > 0 {
				violations.Add(1)
				if cfg.Verbose {
					log.Warn(gctx, "invariant violated",
						logger.Int("shot", i),
						logger.Any("problems", problems),
						logger.Any("request", shot),
					)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
	stats.Takes = int(takes.Load())
	stats.Passes = int(passes.Load())
	stats.Violations = int(violations.Load())
	return err
}

// runReview submits shots as one review and polls it with exponential
// backoff until it completes or the poll timeout passes.
func runReview(ctx context.Context, c *client, cfg Config, id string, shots []model.ShotRequest) error {
	var created model.Review
	req := reviewRequest{ReviewID: id, Shots: shots}
	if _, err := c.postJSON(ctx, "/reviews", req, &created, http.StatusAccepted, http.StatusOK); err != nil {
		return fmt.Errorf("%w: submit: %w", ErrReview, err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = cfg.PollTimeout

	var review model.Review
	poll := func() error {
		if err := c.getJSON(ctx, "/reviews/"+id, &review); err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code == http.StatusNotFound {
				return backoff.Permanent(err)
			}
			return err
		}
		if review.Status != model.ReviewComplete {
			return fmt.Errorf("review %s is %s", id, review.Status)
		}
		return nil
	}
	if err := backoff.Retry(poll, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("%w: poll: %w", ErrReview, err)
	}

	if review.Total != len(shots) || len(review.Results) != len(shots) {
		return fmt.Errorf("%w: expected %d results, got total=%d results=%d",
			ErrReview, len(shots), review.Total, len(review.Results))
	}
	if got := review.Summary.Completed + review.Summary.Failed; got != len(shots) {
		return fmt.Errorf("%w: summary accounts for %d of %d shots", ErrReview, got, len(shots))
	}
	for _, r := range review.Results {
		if r.Advice == nil || r.Index < 0 || r.Index >= len(shots) {
			continue
		}
		if problems := Check(shots[r.Index], *r.Advice); len(problems) > 0 {
			return fmt.Errorf("%w: shot %d: %v", ErrReview, r.Index, problems)
		}
	}
	return nil
}

// saveShots writes the generated shots to a JSON file.
func saveShots(filename string, shots []model.ShotRequest) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(shots, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal shots: %w", err)
	}
	return os.WriteFile(filename, data, 0o600)
}

func logFinalStats(ctx context.Context, log logger.Logger, stats Stats) {
	var successRate, shotsPerSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.Submitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		shotsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("takes", stats.Takes),
		logger.Int("passes", stats.Passes),
		logger.Int("violations", stats.Violations),
		logger.String("reviewID", stats.ReviewID),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("shotsPerSecond", shotsPerSecond),
	)
}
