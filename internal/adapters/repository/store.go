// Package repository keeps film reviews and their per-shot results in memory.
package repository

import (
	"context"

	"github.com/okian/shotcall/internal/domain/model"
)

// Store provides read/write access to reviews.
type Store interface {
	// Create stores a new review. When a review with the same ID already
	// exists it is returned unchanged with created=false.
	Create(ctx context.Context, r model.Review) (review model.Review, created bool, err error)

	// Get returns a snapshot of a review with its status and summary.
	// Returns ErrNotFound if the review is unknown.
	Get(ctx context.Context, id string) (model.Review, error)

	// RecordResult stores the outcome of one shot of a review.
	RecordResult(ctx context.Context, id string, res model.ReviewResult) error

	// Delete removes a review.
	Delete(ctx context.Context, id string) error

	// List returns up to limit reviews, newest first, without per-shot results.
	List(ctx context.Context, limit int) ([]model.Review, error)

	// Count returns the number of stored reviews.
	Count(ctx context.Context) int
}
