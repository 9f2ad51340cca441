// File: internal/auth/model.go
package auth

import (
	"time"

	"miniblocket_backend/internal/user"
)

// RegisterRequest defines the structure for creating a new account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
}

// LoginRequest defines the structure for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the signed access token back to the client.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthResponse bundles the user profile with their token.
type AuthResponse struct {
	User  user.UserResponse `json:"user"`
	Token TokenResponse     `json:"token"`
}
