package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxReviews caps the number of stored reviews. When the cap is reached
// the oldest review is dropped. Non-positive values keep every review.
func WithMaxReviews(n int) Option {
	return func(s *MemoryStore) {
		s.maxReviews = n
	}
}
