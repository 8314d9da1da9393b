package auth

import (
	"github.com/medistore/medistore-backend/internal/users"
)

// RegisterRequest is the self-service sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and the signed-in user.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt int64          `json:"expiresAt"`
	User      *users.UserDTO `json:"user"`
}

// UpdateProfileRequest is the PUT /auth/me payload.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Image *string `json:"image,omitempty" validate:"omitempty,max=2048"`
}
