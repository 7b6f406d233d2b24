package httpapi

import "sheetstack/internal/models"

// UserDTO is the public view of a user; the password digest never leaves the server.
type UserDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Membership string `json:"membership"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Membership: string(u.Membership)}
}

type AuthResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
