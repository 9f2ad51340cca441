// File: internal/notification/service.go
package notification

import (
	"context"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines notification business logic.
type Service interface {
	// Dispatch persists a notification for its recipient. It never
	// deduplicates; callers that need idempotency check first.
	Dispatch(ctx context.Context, n *Notification) error
	ListUnread(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	HasDispatched(ctx context.Context, listingID uuid.UUID, notificationType NotificationType) (bool, error)
}

type service struct {
	repo        Repository
	unreadLimit int
	logger      *zap.Logger
}

// NewService creates a new notification Service. unreadLimit bounds how many
// unread notifications ListUnread returns.
func NewService(repo Repository, unreadLimit int, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		unreadLimit: unreadLimit,
		logger:      logger.Named("NotificationService"),
	}
}

func (s *service) Dispatch(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to dispatch notification",
			zap.Error(err),
			zap.String("userID", n.UserID.String()),
			zap.String("type", string(n.Type)))
		return common.ErrDependencyFailure.WithDetails("Failed to deliver notification.")
	}
	s.logger.Info("Notification dispatched",
		zap.String("userID", n.UserID.String()),
		zap.String("type", string(n.Type)))
	return nil
}

func (s *service) ListUnread(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	return s.repo.ListUnread(ctx, userID, s.unreadLimit)
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, page, pageSize)
}

// MarkRead is idempotent: marking an already-read notification is not an error.
func (s *service) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return s.repo.MarkRead(ctx, userID, ids)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) HasDispatched(ctx context.Context, listingID uuid.UUID, notificationType NotificationType) (bool, error) {
	return s.repo.ExistsForListingEvent(ctx, listingID, notificationType)
}
