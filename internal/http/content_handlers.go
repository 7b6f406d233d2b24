package httpapi

import (
	"net/http"

	"sheetstack/internal/models"
)

// ListContent serves one content sheet filtered for the caller's membership.
func (s *Server) ListContent(kind models.ContentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r)
		if !ok {
			WriteError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		items, err := s.Content.List(r.Context(), kind, user.Membership)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, items)
	}
}
