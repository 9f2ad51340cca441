// File: internal/user/service.go
package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/google/uuid"
)

// Service defines the interface for user-profile business logic.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return usr, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	usr.Name = strings.TrimSpace(req.Name)
	if err := s.repo.Update(ctx, usr); err != nil {
		s.logger.Error("Failed to update user profile", zap.Error(err), zap.String("userID", id.String()))
		return nil, err
	}

	s.logger.Info("User profile updated", zap.String("userID", id.String()))
	return usr, nil
}
