package scoring

import (
	"context"

	"github.com/okian/shotcall/internal/domain/model"
)

// FallbackScorer tries a primary scorer and falls back to a secondary one on error.
type FallbackScorer struct {
	primary    Scorer
	secondary  Scorer
	onFallback func(err error)
}

// NewFallbackScorer combines primary and secondary. onFallback may be nil.
func NewFallbackScorer(primary, secondary Scorer, onFallback func(err error)) *FallbackScorer {
	return &FallbackScorer{primary: primary, secondary: secondary, onFallback: onFallback}
}

// Score implements Scorer.
func (f *FallbackScorer) Score(ctx context.Context, shot model.Shot) (Result, error) {
	res, err := f.primary.Score(ctx, shot)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return Result{}, err
	}
	if f.onFallback != nil {
		f.onFallback(err)
	}
	return f.secondary.Score(ctx, shot)
}

// Available reports whether the primary scorer is serving. Scorers without an
// availability signal count as available.
func (f *FallbackScorer) Available() bool {
	if a, ok := f.primary.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}
