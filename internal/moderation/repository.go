// File: internal/moderation/repository.go
package moderation

import (
	"context"
	"fmt"
	"time"

	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *ModerationEvent) error
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]ModerationEvent, error)
	FindDecisionsSince(ctx context.Context, since time.Time) ([]ModerationEvent, error)
	// ApplyDecision persists the listing's new state and its audit event in a
	// single transaction so the trail never diverges from the listing.
	ApplyDecision(ctx context.Context, l *listing.Listing, event *ModerationEvent) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM moderation repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, event *ModerationEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create moderation event: %w", err)
	}
	return nil
}

// FindByListingID returns a listing's full audit trail, oldest first.
func (r *gormRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]ModerationEvent, error) {
	var events []ModerationEvent
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moderation events for listing %s: %w", listingID, err)
	}
	return events, nil
}

// FindDecisionsSince returns approve and reject events created after the
// given time. The notification redelivery job scans these.
func (r *gormRepository) FindDecisionsSince(ctx context.Context, since time.Time) ([]ModerationEvent, error) {
	var events []ModerationEvent
	err := r.db.WithContext(ctx).
		Where("action IN ? AND created_at >= ?", []ModerationAction{ActionApprove, ActionReject}, since).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moderation decisions since %s: %w", since, err)
	}
	return events, nil
}

func (r *gormRepository) ApplyDecision(ctx context.Context, l *listing.Listing, event *ModerationEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images", "Seller").Save(l).Error; err != nil {
			return fmt.Errorf("failed to update listing state: %w", err)
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to record moderation event: %w", err)
		}
		return nil
	})
}
