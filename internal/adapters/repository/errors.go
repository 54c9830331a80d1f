package repository

import "errors"

var (
	ErrNotFound     = errors.New("review not found")
	ErrInvalidIndex = errors.New("shot index out of range")
	ErrInvalidLimit = errors.New("invalid list limit")
	ErrEmptyReview  = errors.New("review has no shots")
)
