package httpapi

import (
	"net/http"

	"sheetstack/internal/models"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err, "Email and password are required")
		return
	}
	user, err := s.Users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusCreated, "User registered successfully", user)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err, "Email and password are required")
		return
	}
	user, err := s.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, "Login successful", user)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, message string, user models.User) {
	token, _, err := s.Tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, status, AuthResponse{
		Message: message,
		Token:   token,
		User:    toUserDTO(user),
	})
}
