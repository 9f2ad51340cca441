// File: internal/moderation/service.go
package moderation

import (
	"context"
	"strings"
	"sync"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the review workflow for listings.
type Service interface {
	Approve(ctx context.Context, listingID, actorID uuid.UUID, actorRole string) (*DecisionResult, error)
	Reject(ctx context.Context, listingID, actorID uuid.UUID, actorRole string, reason string) (*DecisionResult, error)
	Resubmit(ctx context.Context, listingID, actorID uuid.UUID) (*listing.Listing, error)
	PendingQueue(ctx context.Context, page, pageSize int) ([]listing.Listing, *common.Pagination, error)
	EventsForListing(ctx context.Context, listingID uuid.UUID) ([]ModerationEvent, error)
	Stats(ctx context.Context) (*StatsResponse, error)
}

type service struct {
	repo                Repository
	listingRepo         listing.Repository
	notificationService notification.Service
	logger              *zap.Logger

	// listingLocks serializes decisions per listing so two concurrent
	// moderators cannot both write an event for the same transition.
	listingLocks sync.Map
}

// NewService creates a new moderation Service.
func NewService(repo Repository, listingRepo listing.Repository, notificationService notification.Service, logger *zap.Logger) Service {
	return &service{
		repo:                repo,
		listingRepo:         listingRepo,
		notificationService: notificationService,
		logger:              logger.Named("ModerationService"),
	}
}

func (s *service) lockListing(listingID uuid.UUID) func() {
	mu, _ := s.listingLocks.LoadOrStore(listingID, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

// Approve moves a pending listing live: status active, publicly visible.
// Exactly one approve event is recorded, and the seller is notified.
// Approving a listing that is not pending, including one already approved,
// fails with an invalid state error.
func (s *service) Approve(ctx context.Context, listingID, actorID uuid.UUID, actorRole string) (*DecisionResult, error) {
	if actorRole != common.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("Only admins can approve listings.")
	}

	unlock := s.lockListing(listingID)
	defer unlock()

	l, err := s.listingRepo.FindByID(ctx, listingID, true)
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusPending {
		return nil, common.ErrInvalidState.WithDetails("Only pending listings can be approved.")
	}

	l.Status = listing.StatusActive
	l.Visible = true

	event := &ModerationEvent{
		ListingID: l.ID,
		Action:    ActionApprove,
		ActorID:   actorID,
	}
	if err := s.repo.ApplyDecision(ctx, l, event); err != nil {
		s.logger.Error("Failed to approve listing", zap.Error(err), zap.String("listingID", listingID.String()))
		return nil, err
	}
	s.logger.Info("Listing approved",
		zap.String("listingID", l.ID.String()),
		zap.String("actorID", actorID.String()))

	delivered := s.notifySeller(ctx, notification.NewProductApproved(l.SellerID, l.ID, l.Title))
	return &DecisionResult{Listing: l, NotificationDelivered: delivered}, nil
}

// Reject moves a pending listing to rejected and records the reason. The
// state change and audit event commit together; the seller notification is
// delivered on a best-effort basis afterwards, and the redelivery job picks
// up any that were missed. A blank reason fails validation before any state
// is touched.
func (s *service) Reject(ctx context.Context, listingID, actorID uuid.UUID, actorRole string, reason string) (*DecisionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.ErrValidation.WithDetails("A rejection reason is required.")
	}
	if actorRole != common.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("Only admins can reject listings.")
	}

	unlock := s.lockListing(listingID)
	defer unlock()

	l, err := s.listingRepo.FindByID(ctx, listingID, true)
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusPending {
		return nil, common.ErrInvalidState.WithDetails("Only pending listings can be rejected.")
	}

	now := time.Now()
	l.Status = listing.StatusRejected
	l.Visible = false
	l.RejectedReason = &reason
	l.RejectedAt = &now
	l.RejectedBy = &actorID

	event := &ModerationEvent{
		ListingID: l.ID,
		Action:    ActionReject,
		Reason:    &reason,
		ActorID:   actorID,
	}
	if err := s.repo.ApplyDecision(ctx, l, event); err != nil {
		s.logger.Error("Failed to reject listing", zap.Error(err), zap.String("listingID", listingID.String()))
		return nil, err
	}
	s.logger.Info("Listing rejected",
		zap.String("listingID", l.ID.String()),
		zap.String("actorID", actorID.String()),
		zap.String("reason", reason))

	delivered := s.notifySeller(ctx, notification.NewProductRejected(l.SellerID, l.ID, l.Title, reason))
	return &DecisionResult{Listing: l, NotificationDelivered: delivered}, nil
}

// Resubmit returns a rejected listing to the review queue. Only the seller
// can resubmit, and only from the rejected state. The previous rejection
// reason stays on the listing so the history of why it was rejected is not
// lost.
func (s *service) Resubmit(ctx context.Context, listingID, actorID uuid.UUID) (*listing.Listing, error) {
	unlock := s.lockListing(listingID)
	defer unlock()

	l, err := s.listingRepo.FindByID(ctx, listingID, true)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, common.ErrForbidden.WithDetails("Only the seller can resubmit a listing.")
	}
	if l.Status != listing.StatusRejected {
		return nil, common.ErrInvalidState.WithDetails("Only rejected listings can be resubmitted.")
	}

	now := time.Now()
	l.Status = listing.StatusPending
	l.Visible = false
	l.ResubmittedAt = &now

	event := &ModerationEvent{
		ListingID: l.ID,
		Action:    ActionResubmit,
		ActorID:   actorID,
	}
	if err := s.repo.ApplyDecision(ctx, l, event); err != nil {
		s.logger.Error("Failed to resubmit listing", zap.Error(err), zap.String("listingID", listingID.String()))
		return nil, err
	}
	s.logger.Info("Listing resubmitted for review", zap.String("listingID", l.ID.String()))
	return l, nil
}

// PendingQueue returns pending listings oldest first, so the longest-waiting
// sellers are reviewed first.
func (s *service) PendingQueue(ctx context.Context, page, pageSize int) ([]listing.Listing, *common.Pagination, error) {
	return s.listingRepo.FindByStatus(ctx, listing.StatusPending, page, pageSize)
}

// EventsForListing returns the full audit trail for a listing, oldest first.
func (s *service) EventsForListing(ctx context.Context, listingID uuid.UUID) ([]ModerationEvent, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID, false); err != nil {
		return nil, err
	}
	return s.repo.FindByListingID(ctx, listingID)
}

// Stats returns listing counts per review state for the admin dashboard.
func (s *service) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.listingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		Pending:  counts[listing.StatusPending],
		Active:   counts[listing.StatusActive],
		Rejected: counts[listing.StatusRejected],
		Sold:     counts[listing.StatusSold],
	}, nil
}

// notifySeller delivers a decision notification without failing the decision
// itself. A delivery error is logged; the redelivery job retries it later.
// It reports whether the notification actually went out.
func (s *service) notifySeller(ctx context.Context, n *notification.Notification) bool {
	if err := s.notificationService.Dispatch(ctx, n); err != nil {
		s.logger.Warn("Decision committed but notification delivery failed; redelivery job will retry",
			zap.Error(err),
			zap.String("userID", n.UserID.String()),
			zap.String("type", string(n.Type)))
		return false
	}
	return true
}
