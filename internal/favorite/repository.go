// File: internal/favorite/repository.go
package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Find(ctx context.Context, userID, listingID uuid.UUID) (*Favorite, error)
	Delete(ctx context.Context, userID, listingID uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Favorite, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM favorite repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, favorite *Favorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// Find returns the favorite for a user/listing pair, or nil when none exists.
func (r *gormRepository) Find(ctx context.Context, userID, listingID uuid.UUID) (*Favorite, error) {
	var favorite Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &favorite, nil
}

func (r *gormRepository) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// FindByUserID returns a user's favorites with their listings preloaded,
// newest first.
func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	var favorites []Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Listing").
		Preload("Listing.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.sort_order ASC")
		}).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites for user %s: %w", userID, err)
	}
	return favorites, nil
}
