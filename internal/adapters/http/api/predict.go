package api

import (
	"net/http"

	"github.com/okian/shotcall/internal/domain/model"
)

// handlePredict handles POST /predict-shot.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_shot"

	var req model.ShotRequest
	if err := s.decode(w, r, op, &req); err != nil {
		s.fail(w, r, op, err)
		return
	}

	advice, err := s.deps.Evaluate(r.Context(), req)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, advice)
}
