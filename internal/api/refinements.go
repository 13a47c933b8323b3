package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/moodmatch/internal/media"
)

type saveRequest struct {
	Item media.Item `json:"item"`
}

// refinements handles GET /api/v1/refinements/{mediaType}
func (s *Server) refinements(w http.ResponseWriter, r *http.Request) {
	mt, err := media.ParseType(chi.URLParam(r, "mediaType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"media_type": mt,
		"options":    s.deps.Refinements.Options(mt),
	})
}

// save handles POST /api/v1/save. Saving is not built yet; signed-in callers
// are told so, everyone else is asked to sign in.
func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if s.deps.Auth == nil {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	subject, err := s.deps.Auth.SignedIn(r)
	if err != nil {
		s.logger.Debug("save rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var req saveRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("save requested", "subject", subject, "title", req.Item.Title)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "coming_soon",
		"message": "Saving to your watchlist is coming soon",
	})
}
