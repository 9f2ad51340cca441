// File: internal/auth/token.go
package auth

import (
	"fmt"
	"time"

	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/user"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims carries the authenticated session data inside a JWT.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens.
type TokenService interface {
	GenerateAccessToken(u *user.User) (string, time.Time, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService backed by HS256 JWTs.
func NewTokenService(cfg *config.Config) TokenService {
	return &jwtTokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.JWTAccessTokenTTL,
	}
}

func (s *jwtTokenService) GenerateAccessToken(u *user.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *jwtTokenService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
