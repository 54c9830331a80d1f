package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/okian/shotcall/internal/domain/model"
)

const (
	defaultRemoteTimeout   = 2 * time.Second
	defaultRemoteRetries   = 2
	defaultBreakerTimeout  = 30 * time.Second
	defaultBreakerInterval = 60 * time.Second
	breakerTripFailures    = 3
	maxResponseBytes       = 1 << 16
)

// RemoteOption configures a RemoteScorer.
type RemoteOption func(*RemoteScorer)

// WithHTTPClient sets the HTTP client used for model requests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteScorer) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each individual model request.
func WithTimeout(d time.Duration) RemoteOption {
	return func(s *RemoteScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) RemoteOption {
	return func(s *RemoteScorer) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// WithBackOff overrides the retry schedule. Intended for tests.
func WithBackOff(newBackOff func() backoff.BackOff) RemoteOption {
	return func(s *RemoteScorer) {
		if newBackOff != nil {
			s.newBackOff = newBackOff
		}
	}
}

// WithStateChangeHook is called whenever the circuit breaker changes state.
func WithStateChangeHook(fn func(from, to gobreaker.State)) RemoteOption {
	return func(s *RemoteScorer) {
		s.onStateChange = fn
	}
}

// RemoteScorer implements Scorer by POSTing feature rows to a model server.
// The server answers {"make_probability": p}.
type RemoteScorer struct {
	url           string
	client        *http.Client
	timeout       time.Duration
	retries       int
	newBackOff    func() backoff.BackOff
	onStateChange func(from, to gobreaker.State)
	breaker       *gobreaker.CircuitBreaker
}

type remoteResponse struct {
	MakeProbability *float64 `json:"make_probability"`
}

// NewRemoteScorer creates a scorer for the model server at url.
func NewRemoteScorer(url string, opts ...RemoteOption) *RemoteScorer {
	s := &RemoteScorer{
		url:        url,
		client:     &http.Client{},
		timeout:    defaultRemoteTimeout,
		retries:    defaultRemoteRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(s)
	}

	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-server",
		MaxRequests: 1,
		Interval:    defaultBreakerInterval,
		Timeout:     defaultBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > breakerTripFailures
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			if s.onStateChange != nil {
				s.onStateChange(from, to)
			}
		},
	})
	return s
}

// Score asks the model server for the make probability of shot.
func (s *RemoteScorer) Score(ctx context.Context, shot model.Shot) (Result, error) {
	body, err := json.Marshal(NewFeatures(shot))
	if err != nil {
		return Result{}, fmt.Errorf("encode features: %w", err)
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.postWithRetry(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return Result{}, err
	}
	p, _ := out.(float64)
	return Result{Probability: p, Source: SourceRemote}, nil
}

// Available reports whether the circuit breaker currently lets requests through.
func (s *RemoteScorer) Available() bool {
	return s.breaker.State() != gobreaker.StateOpen
}

// State returns the circuit breaker state.
func (s *RemoteScorer) State() gobreaker.State {
	return s.breaker.State()
}

func (s *RemoteScorer) postWithRetry(ctx context.Context, body []byte) (float64, error) {
	var p float64
	op := func() error {
		v, err := s.post(ctx, body)
		if err != nil {
			return err
		}
		p = v
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.retries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return 0, fmt.Errorf("remote score: %w", err)
	}
	return p, nil
}

func (s *RemoteScorer) post(ctx context.Context, body []byte) (float64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("read model response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		// Client errors will not succeed on retry.
		return 0, backoff.Permanent(fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model server status %d", resp.StatusCode)
	}

	var decoded remoteResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("%w: %v", ErrBadResponse, err))
	}
	if decoded.MakeProbability == nil {
		return 0, backoff.Permanent(fmt.Errorf("%w: missing make_probability", ErrBadResponse))
	}
	return clampProbability(*decoded.MakeProbability), nil
}
