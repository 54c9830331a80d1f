package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/shotcall/internal/adapters/shotdata"
	service "github.com/okian/shotcall/internal/app"
	"github.com/okian/shotcall/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
	ErrRateLimited  = errors.New("rate limited")
	ErrInternal     = errors.New("internal error")
)

// Error is an API error tagged with the operation that produced it and a kind.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind for op without a cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Classify maps a downstream error to an API kind.
func Classify(op string, err error) error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, service.ErrInvalidReview):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrReviewNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, service.ErrBusy):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, scoring.ErrUnavailable),
		errors.Is(err, shotdata.ErrDataDirNotFound),
		errors.Is(err, shotdata.ErrNoData):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return WrapKind(op, ErrInternal, err)
	}
}

// statusFor returns the HTTP status and error code for err.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, ErrBackpressure):
		return http.StatusServiceUnavailable, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
