// File: internal/jobs/notification_redelivery_test.go
package jobs

import (
	"context"
	"testing"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/moderation"
	"miniblocket_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) Create(ctx context.Context, event *moderation.ModerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockModerationRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]moderation.ModerationEvent, error) {
	args := m.Called(ctx, listingID)
	var events []moderation.ModerationEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]moderation.ModerationEvent)
	}
	return events, args.Error(1)
}

func (m *MockModerationRepository) FindDecisionsSince(ctx context.Context, since time.Time) ([]moderation.ModerationEvent, error) {
	args := m.Called(ctx, since)
	var events []moderation.ModerationEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]moderation.ModerationEvent)
	}
	return events, args.Error(1)
}

func (m *MockModerationRepository) ApplyDecision(ctx context.Context, l *listing.Listing, event *moderation.ModerationEvent) error {
	args := m.Called(ctx, l, event)
	return args.Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*listing.Listing, error) {
	args := m.Called(ctx, id, preloadAssociations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) ReplaceImages(ctx context.Context, listingID uuid.UUID, images []listing.ListingImage) error {
	args := m.Called(ctx, listingID, images)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) SearchPublic(ctx context.Context, query listing.SearchQuery) ([]listing.Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	return nil, nil, args.Error(2)
}

func (m *MockListingRepository) FindBySellerAndStatuses(ctx context.Context, sellerID uuid.UUID, statuses []listing.ListingStatus) ([]listing.Listing, error) {
	args := m.Called(ctx, sellerID, statuses)
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindByStatus(ctx context.Context, status listing.ListingStatus, page, pageSize int) ([]listing.Listing, *common.Pagination, error) {
	args := m.Called(ctx, status, page, pageSize)
	return nil, nil, args.Error(2)
}

func (m *MockListingRepository) CountByStatus(ctx context.Context) (map[listing.ListingStatus]int64, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Dispatch(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *MockNotificationService) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return nil, nil, args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) HasDispatched(ctx context.Context, listingID uuid.UUID, notificationType notification.NotificationType) (bool, error) {
	args := m.Called(ctx, listingID, notificationType)
	return args.Bool(0), args.Error(1)
}

func setupRedeliveryJob() (*NotificationRedeliveryJob, *MockModerationRepository, *MockListingRepository, *MockNotificationService) {
	moderationRepo := new(MockModerationRepository)
	listingRepo := new(MockListingRepository)
	notificationService := new(MockNotificationService)
	cfg := &config.Config{NotificationRedeliveryLookback: 24 * time.Hour}

	job := NewNotificationRedeliveryJob(moderationRepo, listingRepo, notificationService, zap.NewNop(), cfg)
	return job, moderationRepo, listingRepo, notificationService
}

func TestNotificationRedeliveryJob_Run_RedeliversMissedRejection(t *testing.T) {
	job, moderationRepo, listingRepo, notificationService := setupRedeliveryJob()
	ctx := context.Background()
	sellerID := uuid.New()
	reason := "Poor photos"

	l := &listing.Listing{SellerID: sellerID, Title: "Stroller", Status: listing.StatusRejected}
	l.ID = uuid.New()
	event := moderation.ModerationEvent{
		ListingID: l.ID,
		Action:    moderation.ActionReject,
		Reason:    &reason,
		ActorID:   uuid.New(),
	}

	moderationRepo.On("FindDecisionsSince", ctx, mock.AnythingOfType("time.Time")).
		Return([]moderation.ModerationEvent{event}, nil).Once()
	notificationService.On("HasDispatched", ctx, l.ID, notification.TypeProductRejected).
		Return(false, nil).Once()
	listingRepo.On("FindByID", ctx, l.ID, false).Return(l, nil).Once()
	notificationService.On("Dispatch", ctx, mock.AnythingOfType("*notification.Notification")).
		Return(nil).Once()

	redelivered, err := job.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, redelivered)

	n := notificationService.Calls[1].Arguments.Get(1).(*notification.Notification)
	assert.Equal(t, notification.TypeProductRejected, n.Type)
	assert.Equal(t, sellerID, n.UserID)
	assert.Contains(t, n.Body, "Poor photos")
	notificationService.AssertExpectations(t)
}

func TestNotificationRedeliveryJob_Run_SkipsAlreadyDelivered(t *testing.T) {
	job, moderationRepo, listingRepo, notificationService := setupRedeliveryJob()
	ctx := context.Background()
	listingID := uuid.New()
	event := moderation.ModerationEvent{ListingID: listingID, Action: moderation.ActionApprove, ActorID: uuid.New()}

	moderationRepo.On("FindDecisionsSince", ctx, mock.AnythingOfType("time.Time")).
		Return([]moderation.ModerationEvent{event}, nil).Once()
	notificationService.On("HasDispatched", ctx, listingID, notification.TypeProductApproved).
		Return(true, nil).Once()

	redelivered, err := job.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, redelivered)
	listingRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	notificationService.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestNotificationRedeliveryJob_Run_SkipsDeletedListings(t *testing.T) {
	job, moderationRepo, listingRepo, notificationService := setupRedeliveryJob()
	ctx := context.Background()
	listingID := uuid.New()
	event := moderation.ModerationEvent{ListingID: listingID, Action: moderation.ActionApprove, ActorID: uuid.New()}

	moderationRepo.On("FindDecisionsSince", ctx, mock.AnythingOfType("time.Time")).
		Return([]moderation.ModerationEvent{event}, nil).Once()
	notificationService.On("HasDispatched", ctx, listingID, notification.TypeProductApproved).
		Return(false, nil).Once()
	listingRepo.On("FindByID", ctx, listingID, false).
		Return(nil, common.ErrNotFound.WithDetails("Listing not found.")).Once()

	redelivered, err := job.Run(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, redelivered)
	notificationService.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}
