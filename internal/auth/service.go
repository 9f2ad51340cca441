// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/user"

	"go.uber.org/zap"
)

// Service defines the interface for authentication business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*user.User, *TokenResponse, error)
	Login(ctx context.Context, email, password string) (*user.User, *TokenResponse, error)
}

type service struct {
	userRepo     user.Repository
	tokenService TokenService
	logger       *zap.Logger
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, tokenService TokenService, logger *zap.Logger) Service {
	return &service{
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates a new user account and issues an access token.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*user.User, *TokenResponse, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &user.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Role:         common.RoleUser,
	}

	if err := s.userRepo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token after registration", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	s.logger.Info("User registered successfully", zap.String("userID", dbUser.ID.String()))
	return dbUser, tokenResponse, nil
}

// Login verifies credentials and issues an access token.
func (s *service) Login(ctx context.Context, email, password string) (*user.User, *TokenResponse, error) {
	dbUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, dbUser); err != nil {
		// Not critical for auth, proceed with login.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse, err := s.issueToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token on login", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	s.logger.Info("User logged in successfully", zap.String("userID", dbUser.ID.String()))
	return dbUser, tokenResponse, nil
}

func (s *service) issueToken(u *user.User) (*TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
