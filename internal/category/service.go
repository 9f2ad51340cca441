// File: internal/category/service.go
package category

import (
	"context"

	"miniblocket_backend/internal/common"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for category-related business logic.
type Service interface {
	GetAllCategories(ctx context.Context) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	EnsureDefaults(ctx context.Context) error
	ValidCategorySlug(ctx context.Context, slug string) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new category service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	return categories, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slugToFind string) (*Category, error) {
	return s.repo.FindBySlug(ctx, slugToFind)
}

// EnsureDefaults seeds the fixed category set, skipping rows that already exist.
func (s *service) EnsureDefaults(ctx context.Context) error {
	for _, name := range DefaultNames {
		cat := &Category{
			Name: name,
			Slug: slug.Make(name),
		}
		if err := s.repo.Upsert(ctx, cat); err != nil {
			s.logger.Error("Failed to seed category", zap.Error(err), zap.String("name", name))
			return err
		}
	}
	s.logger.Info("Default categories are in place", zap.Int("count", len(DefaultNames)))
	return nil
}

func (s *service) ValidCategorySlug(ctx context.Context, slugToCheck string) (bool, error) {
	_, err := s.repo.FindBySlug(ctx, slugToCheck)
	if err != nil {
		if common.IsCode(err, "NOT_FOUND") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
