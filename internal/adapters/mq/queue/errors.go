package queue

import "errors"

var (
	ErrFull   = errors.New("review queue full")
	ErrClosed = errors.New("review queue closed")
)
