package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/shotcall/internal/domain/model"
)

const defaultMaxReviews = 1000

type entry struct {
	review  model.Review
	results []*model.ReviewResult
	done    int
}

// MemoryStore implements Store with a mutex-guarded map.
type MemoryStore struct {
	mu         sync.RWMutex
	reviews    map[string]*entry
	order      []string // insertion order, oldest first
	maxReviews int
	now        func() time.Time
}

// NewMemoryStore creates an empty review store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		reviews:    make(map[string]*entry),
		maxReviews: defaultMaxReviews,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, r model.Review) (model.Review, bool, error) {
	if len(r.Shots) == 0 {
		return model.Review{}, false, ErrEmptyReview
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.reviews[r.ID]; ok {
		return e.snapshot(true), false, nil
	}

	now := s.now().UTC()
	r.Total = len(r.Shots)
	r.Status = model.ReviewPending
	r.CreatedAt, r.UpdatedAt = now, now
	r.Results = nil
	r.Shots = append([]model.ShotRequest(nil), r.Shots...)

	if s.maxReviews > 0 && len(s.order) >= s.maxReviews {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reviews, oldest)
	}

	e := &entry{review: r, results: make([]*model.ReviewResult, r.Total)}
	s.reviews[r.ID] = e
	s.order = append(s.order, r.ID)
	return e.snapshot(true), true, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.reviews[id]
	if !ok {
		return model.Review{}, ErrNotFound
	}
	return e.snapshot(true), nil
}

func (s *MemoryStore) RecordResult(_ context.Context, id string, res model.ReviewResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.reviews[id]
	if !ok {
		return ErrNotFound
	}
	if res.Index < 0 || res.Index >= len(e.results) {
		return ErrInvalidIndex
	}
	if e.results[res.Index] != nil {
		return nil
	}

	e.results[res.Index] = &res
	e.done++
	e.review.UpdatedAt = s.now().UTC()
	if e.done == e.review.Total {
		e.review.Status = model.ReviewComplete
	} else {
		e.review.Status = model.ReviewProcessing
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(s.reviews, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Review, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.reviews[s.order[i]].snapshot(false))
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

// snapshot copies the review out of the store. Callers hold the lock.
func (e *entry) snapshot(withResults bool) model.Review {
	r := e.review
	r.Shots = append([]model.ShotRequest(nil), e.review.Shots...)

	results := make([]model.ReviewResult, 0, e.done)
	for _, res := range e.results {
		if res != nil {
			results = append(results, *res)
		}
	}

	r.Summary = model.Summarize(results)
	if withResults {
		r.Results = results
	} else {
		r.Results = nil
	}
	return r
}
