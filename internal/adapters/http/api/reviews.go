package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/shotcall/internal/adapters/report"
	"github.com/okian/shotcall/internal/domain/model"
)

type reviewRequest struct {
	ReviewID string              `json:"review_id" validate:"omitempty,max=128"`
	Shots    []model.ShotRequest `json:"shots" validate:"required,min=1,dive"`
}

// handleCreateReview handles POST /reviews. New reviews answer 202; a known
// review_id answers 200 with the existing review.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_review"

	var req reviewRequest
	if err := s.decode(w, r, op, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}

	review, created, err := s.deps.SubmitReview(r.Context(), req.ReviewID, req.Shots)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusAccepted
	}
	w.Header().Set("Location", "/reviews/"+review.ID)
	writeJSON(w, status, review)
}

// handleListReviews handles GET /reviews?limit=.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reviews"

	limit := defaultReviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		limit = n
	}

	reviews, err := s.deps.ListReviews(r.Context(), limit)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// handleGetReview handles GET /reviews/{id}.
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_review"

	review, err := s.deps.Review(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// handleReviewReport handles GET /reviews/{id}/report. The workbook is built
// in memory so failures still produce a JSON error.
func (s *Server) handleReviewReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.review_report"
	id := r.PathValue("id")

	var buf bytes.Buffer
	if err := s.deps.WriteReviewReport(r.Context(), id, &buf); err != nil {
		s.fail(w, r, op, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "review-"+id+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
