package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/shotcall/internal/adapters/shotdata"
)

// handleShotSample handles GET /shots/sample?limit=&made=&shot_type=&zone=.
func (s *Server) handleShotSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.shots_sample"
	q := r.URL.Query()

	f := shotdata.Filter{
		Made:     q.Get("made"),
		ShotType: q.Get("shot_type"),
		Zone:     q.Get("zone"),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		f.Limit = n
	}
	switch f.Made {
	case "", shotdata.All, shotdata.MadeOnly, shotdata.MissedOnly:
	default:
		s.fail(w, r, op, WrapKind(op, ErrBadRequest, errors.New("made must be one of all, made, missed")))
		return
	}

	points, err := s.deps.SampleShots(r.Context(), f)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(points),
		"shots": points,
	})
}

// handleShotMetadata handles GET /shots/metadata.
func (s *Server) handleShotMetadata(w http.ResponseWriter, r *http.Request) {
	const op = "api.shots_metadata"
	meta, err := s.deps.ShotMetadata(r.Context())
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
