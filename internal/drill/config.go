// Package drill drives a running advisory server with generated shots and
// checks every answer against the decision invariants.
package drill

import (
	"errors"
	"runtime"
	"time"
)

var (
	// ErrUnhealthy is returned when the target server is not ready.
	ErrUnhealthy = errors.New("service not ready")
	// ErrInvariant is returned when at least one answer broke an invariant.
	ErrInvariant = errors.New("invariant violated")
	// ErrReview is returned when the follow-up review did not complete cleanly.
	ErrReview = errors.New("review check failed")
)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultShots       = 500
	DefaultTimeout     = 10 * time.Second
	DefaultPollTimeout = 30 * time.Second
	DefaultReviewShots = 20
)

// Config holds configuration for a drill run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Shots       int           // Number of shots to generate
	Workers     int           // Number of concurrent requests
	Timeout     time.Duration // HTTP request timeout
	PollTimeout time.Duration // How long to wait for the review to finish
	ReviewShots int           // Shots submitted in the follow-up review; 0 skips it
	Seed        uint64        // Generator seed
	OutputFile  string        // Optional JSON dump of the generated shots
	Verbose     bool          // Log every violation
}

// DefaultConfig returns a Config with every field set.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Shots:       DefaultShots,
		Workers:     runtime.NumCPU() * 2,
		Timeout:     DefaultTimeout,
		PollTimeout: DefaultPollTimeout,
		ReviewShots: DefaultReviewShots,
		Seed:        uint64(time.Now().UnixNano()),
	}
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Shots <= 0 {
		c.Shots = DefaultShots
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.ReviewShots > c.Shots {
		c.ReviewShots = c.Shots
	}
	return c
}

// Stats holds drill statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Succeeded  int
	Failed     int
	Takes      int
	Passes     int
	Violations int
	ReviewID   string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
