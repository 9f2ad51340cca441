// File: internal/favorite/service.go
package favorite

import (
	"context"

	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines favorite business logic.
type Service interface {
	// Toggle adds the listing to the user's favorites, or removes it if
	// already present. Returns whether the listing is favorited afterwards.
	Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error)
}

type service struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new favorite Service.
func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.Named("FavoriteService"),
	}
}

func (s *service) Toggle(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	// Favoriting a listing that does not exist is a not-found error, not a
	// silent no-op.
	if _, err := s.listingRepo.FindByID(ctx, listingID, false); err != nil {
		return false, err
	}

	existing, err := s.repo.Find(ctx, userID, listingID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.repo.Delete(ctx, userID, listingID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.Create(ctx, &Favorite{UserID: userID, ListingID: listingID}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	return s.repo.FindByUserID(ctx, userID)
}
