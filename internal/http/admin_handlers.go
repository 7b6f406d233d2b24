package httpapi

import (
	"fmt"
	"net/http"

	"sheetstack/internal/models"
)

type UpdateMembershipRequest struct {
	UserID        string `json:"userId" validate:"required"`
	NewMembership string `json:"newMembership" validate:"required"`
}

func (s *Server) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	var req UpdateMembershipRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err, "userId and newMembership are required")
		return
	}
	user, err := s.Users.UpdateMembership(r.Context(), req.UserID, models.Membership(req.NewMembership))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Membership for user %s updated to %s", user.ID, user.Membership),
	})
}
