// File: internal/notification/repository.go
package notification

import (
	"context"
	"fmt"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsForListingEvent(ctx context.Context, listingID uuid.UUID, notificationType NotificationType) (bool, error)
}

// GORMRepository implements the Repository interface using GORM.
type GORMRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM notification repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &GORMRepository{db: db}
}

// Create inserts a new notification into the database.
func (r *GORMRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByUserID retrieves a paginated list of notifications for a user, newest first.
func (r *GORMRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	var notifications []Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting notifications for user %s failed: %w", userID, err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := query.Order("created_at DESC").
		Limit(pagination.PageSize).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching notifications for user %s failed: %w", userID, err)
	}
	return notifications, pagination, nil
}

// ListUnread returns up to limit unread notifications for a user, newest first.
func (r *GORMRepository) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	var notifications []Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("fetching unread notifications for user %s failed: %w", userID, err)
	}
	return notifications, nil
}

// MarkRead marks the given notifications as read for a user. IDs that are
// missing, owned by someone else, or already read are skipped; the returned
// count covers rows actually updated.
func (r *GORMRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read for user %s: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}

// MarkAllRead marks every unread notification for a user as read and returns
// how many were updated.
func (r *GORMRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read for user %s: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}

// ExistsForListingEvent reports whether a notification of the given type has
// already been written for a listing. The redelivery job uses this to stay
// idempotent.
func (r *GORMRepository) ExistsForListingEvent(ctx context.Context, listingID uuid.UUID, notificationType NotificationType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("listing_id = ? AND type = ?", listingID, notificationType).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence for listing %s: %w", listingID, err)
	}
	return count > 0, nil
}
