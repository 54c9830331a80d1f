package model

import (
	"math"
	"time"

	"github.com/okian/shotcall/internal/domain/types"
)

// ReviewStatus tracks the lifecycle of a batch review.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewProcessing ReviewStatus = "processing"
	ReviewComplete   ReviewStatus = "complete"
)

// ReviewTask is one queued shot of a review.
type ReviewTask struct {
	ReviewID   string
	Index      int
	Request    ShotRequest
	EnqueuedAt time.Time
}

// ReviewResult is the outcome of evaluating one shot in a review.
type ReviewResult struct {
	Index  int     `json:"index"`
	Advice *Advice `json:"advice,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ReviewSummary aggregates the finished results of a review.
type ReviewSummary struct {
	Completed          int                  `json:"completed"`
	Failed             int                  `json:"failed"`
	Takes              int                  `json:"takes"`
	Passes             int                  `json:"passes"`
	AvgMakeProbability float64              `json:"avg_make_probability"`
	AvgMargin          float64              `json:"avg_margin"`
	Actions            map[types.Action]int `json:"actions"`
	BestShot           *int                 `json:"best_shot,omitempty"`
	WorstShot          *int                 `json:"worst_shot,omitempty"`
}

// Review is a batch of shots evaluated asynchronously.
type Review struct {
	ID        string         `json:"review_id"`
	Status    ReviewStatus   `json:"status"`
	Total     int            `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Shots     []ShotRequest  `json:"-"`
	Results   []ReviewResult `json:"results"`
	Summary   ReviewSummary  `json:"summary"`
}

// Summarize aggregates finished results. Best and worst shots are the result
// indexes with the largest and smallest probability margin over threshold.
func Summarize(results []ReviewResult) ReviewSummary {
	s := ReviewSummary{Actions: map[types.Action]int{}}
	var sumP, sumMargin float64
	bestMargin, worstMargin := 0.0, 0.0

	for _, r := range results {
		if r.Advice == nil {
			if r.Error != "" {
				s.Failed++
			}
			continue
		}
		a := r.Advice
		s.Completed++
		sumP += a.MakeProbability
		m := a.Margin()
		sumMargin += m

		if a.Decision == types.DecisionTake {
			s.Takes++
		} else {
			s.Passes++
			if a.RecommendedAction != "" {
				s.Actions[a.RecommendedAction]++
			}
		}

		idx := r.Index
		if s.BestShot == nil || m > bestMargin {
			s.BestShot, bestMargin = &idx, m
		}
		if s.WorstShot == nil || m < worstMargin {
			worst := r.Index
			s.WorstShot, worstMargin = &worst, m
		}
	}

	if s.Completed > 0 {
		s.AvgMakeProbability = round4(sumP / float64(s.Completed))
		s.AvgMargin = round4(sumMargin / float64(s.Completed))
	}
	return s
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
