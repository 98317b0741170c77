package handler

import (
	"time"

	"lifecover/internal/auth/models"
)

// UserResponse is the public projection of an identity.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is the data payload of POST /api/auth/login.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// VerifyResponse is the data payload of GET /api/auth/verify.
type VerifyResponse struct {
	User UserResponse `json:"user"`
}

func toUserResponse(identity models.Identity) UserResponse {
	return UserResponse{
		ID:    identity.UserID.String(),
		Email: identity.Email,
		Role:  string(identity.Role),
	}
}
