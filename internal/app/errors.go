package service

import "errors"

var (
	// ErrNotStarted is returned by operations that need the worker pool.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidReview marks a review the service refuses to accept.
	ErrInvalidReview = errors.New("invalid review")
	// ErrBusy means the review queue has no room for the submission.
	ErrBusy = errors.New("review queue is full")
	// ErrReviewNotFound is returned for unknown review ids.
	ErrReviewNotFound = errors.New("review not found")
)
