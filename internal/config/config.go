// Package config defines service configuration and its layered loader.
//
// Values come from defaults, then an optional YAML file, then SHOTCALL_*
// environment variables. Keys are flat and match the koanf tags below.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/shotcall/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives JSON log lines alongside stderr.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory review task queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of review workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the remembered review ids.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxReviewShots caps the shots accepted in one review.
	MaxReviewShots int `koanf:"max_review_shots"`

	// MaxReviews caps the reviews kept in memory; the oldest are evicted.
	MaxReviews int `koanf:"max_reviews"`

	// ShotDataDir holds NBA_*.csv / *.xlsx shot-chart files.
	ShotDataDir string `koanf:"shot_data_dir"`

	// SampleLimit is the default /shots/sample row limit.
	SampleLimit int `koanf:"sample_limit"`

	// ModelFile optionally overrides the logistic scorer coefficients.
	ModelFile string `koanf:"model_file"`

	// ZonePriorWeight blends empirical zone make rates into the local model. 0 disables it.
	ZonePriorWeight float64 `koanf:"zone_prior_weight"`

	// PredictorURL enables the remote scorer when non-empty.
	PredictorURL     string        `koanf:"predictor_url"`
	PredictorTimeout time.Duration `koanf:"predictor_timeout"`
	PredictorRetries int           `koanf:"predictor_retries"`

	// RateLimitRPS and RateLimitBurst configure the per-process limiter. RPS <= 0 disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `koanf:"cors_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8000",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       10_000,
		MaxReviewShots:   500,
		MaxReviews:       1_000,
		ShotDataDir:      "data",
		SampleLimit:      15_000,
		PredictorTimeout: 2 * time.Second,
		PredictorRetries: 2,
		RateLimitRPS:     50,
		RateLimitBurst:   100,
		CORSOrigins:      "*",
		ShutdownTimeout:  10 * time.Second,
	}
}

// Origins splits CORSOrigins, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.MaxReviewShots <= 0:
		return fmt.Errorf("%w: max_review_shots must be positive, got %d", ErrInvalidConfig, c.MaxReviewShots)
	case c.SampleLimit <= 0:
		return fmt.Errorf("%w: sample_limit must be positive, got %d", ErrInvalidConfig, c.SampleLimit)
	case c.ZonePriorWeight < 0 || c.ZonePriorWeight > 1:
		return fmt.Errorf("%w: zone_prior_weight must be within [0,1], got %v", ErrInvalidConfig, c.ZonePriorWeight)
	case c.PredictorRetries < 0:
		return fmt.Errorf("%w: predictor_retries must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
