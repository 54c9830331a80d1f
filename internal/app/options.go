package service

import (
	"time"

	repository "github.com/okian/shotcall/internal/adapters/repository"
	"github.com/okian/shotcall/internal/adapters/shotdata"
	"github.com/okian/shotcall/internal/domain/advisory"
	"github.com/okian/shotcall/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of review workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the review task queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the remembered review ids. Zero means unbounded.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxReviewShots caps the number of shots in one review.
func WithMaxReviewShots(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReviewShots = n
		}
	}
}

// WithMaxReviews caps the reviews kept in memory.
func WithMaxReviews(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReviews = n
		}
	}
}

// WithTaskTimeout bounds the evaluation of one review shot.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.taskTimeout = d
		}
	}
}

// WithShotData sets the shot-chart cache.
func WithShotData(c *shotdata.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.shots = c
		}
	}
}

// WithModelFile loads logistic coefficients from a YAML file at Start.
func WithModelFile(path string) Option {
	return func(s *Service) {
		s.modelFile = path
	}
}

// WithZonePriorWeight blends empirical zone make rates into the local model.
func WithZonePriorWeight(w float64) Option {
	return func(s *Service) {
		if w >= 0 && w <= 1 {
			s.zonePriorWeight = w
		}
	}
}

// WithPredictor enables the remote model server with the local model as fallback.
// A negative retries value keeps the scorer default.
func WithPredictor(url string, timeout time.Duration, retries int) Option {
	return func(s *Service) {
		s.predictorURL = url
		s.predictorTimeout = timeout
		s.predictorRetries = retries
	}
}

// WithEngine replaces the advisory engine.
func WithEngine(e *advisory.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithReviewStore replaces the review store.
func WithReviewStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.reviews = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
