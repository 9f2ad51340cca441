// File: internal/moderation/service_test.go
package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockModerationRepository is a mock type for moderation.Repository
type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) Create(ctx context.Context, event *ModerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockModerationRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]ModerationEvent, error) {
	args := m.Called(ctx, listingID)
	var events []ModerationEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]ModerationEvent)
	}
	return events, args.Error(1)
}

func (m *MockModerationRepository) FindDecisionsSince(ctx context.Context, since time.Time) ([]ModerationEvent, error) {
	args := m.Called(ctx, since)
	var events []ModerationEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]ModerationEvent)
	}
	return events, args.Error(1)
}

func (m *MockModerationRepository) ApplyDecision(ctx context.Context, l *listing.Listing, event *ModerationEvent) error {
	args := m.Called(ctx, l, event)
	return args.Error(0)
}

// MockListingRepository is a mock type for listing.Repository
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
	var listings []listing.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]listing.Listing)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return listings, pagination, args.Error(2)
}

func (m *MockListingRepository) FindBySellerAndStatuses(ctx context.Context, sellerID uuid.UUID, statuses []listing.ListingStatus) ([]listing.Listing, error) {
	args := m.Called(ctx, sellerID, statuses)
	var listings []listing.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]listing.Listing)
	}
	return listings, args.Error(1)
}

func (m *MockListingRepository) FindByStatus(ctx context.Context, status listing.ListingStatus, page, pageSize int) ([]listing.Listing, *common.Pagination, error) {
	args := m.Called(ctx, status, page, pageSize)
	var listings []listing.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]listing.Listing)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return listings, pagination, args.Error(2)
}

func (m *MockListingRepository) CountByStatus(ctx context.Context) (map[listing.ListingStatus]int64, error) {
	args := m.Called(ctx)
	var counts map[listing.ListingStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[listing.ListingStatus]int64)
	}
	return counts, args.Error(1)
}

// MockNotificationService is a mock type for notification.Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Dispatch(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	args := m.Called(ctx, userID)
	var notifications []notification.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]notification.Notification)
	}
	return notifications, args.Error(1)
}

func (m *MockNotificationService) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var notifications []notification.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]notification.Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifications, pagination, args.Error(2)
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

// Test Suite Setup
type ModerationServiceTestSuite struct {
	service          Service
	mockRepo         *MockModerationRepository
	mockListingRepo  *MockListingRepository
	mockNotification *MockNotificationService
}

func setupModerationServiceTestSuite(t *testing.T) *ModerationServiceTestSuite {
	ts := &ModerationServiceTestSuite{}
	ts.mockRepo = new(MockModerationRepository)
	ts.mockListingRepo = new(MockListingRepository)
	ts.mockNotification = new(MockNotificationService)

	ts.service = NewService(ts.mockRepo, ts.mockListingRepo, ts.mockNotification, zap.NewNop())
	return ts
}

func pendingListing(sellerID uuid.UUID) *listing.Listing {
	l := &listing.Listing{
		SellerID: sellerID,
		Title:    "Stroller",
		Price:    500,
		Category: "barnvagn",
		Location: "Stockholm",
		Status:   listing.StatusPending,
		Visible:  false,
	}
	l.ID = uuid.New()
	return l
}

// --- Approve ---

func TestModerationService_Approve_Success(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	sellerID := uuid.New()
	adminID := uuid.New()
	l := pendingListing(sellerID)

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()
	ts.mockRepo.On("ApplyDecision", ctx, l, mock.AnythingOfType("*moderation.ModerationEvent")).Return(nil).Once()
	ts.mockNotification.On("Dispatch", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	result, err := ts.service.Approve(ctx, l.ID, adminID, common.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, listing.StatusActive, result.Listing.Status)
	assert.True(t, result.Listing.Visible)
	assert.True(t, result.Listing.IsPubliclyVisible())
	assert.True(t, result.NotificationDelivered)

	event := ts.mockRepo.Calls[0].Arguments.Get(2).(*ModerationEvent)
	assert.Equal(t, ActionApprove, event.Action)
	assert.Equal(t, l.ID, event.ListingID)
	assert.Equal(t, adminID, event.ActorID)
	assert.Nil(t, event.Reason)

	n := ts.mockNotification.Calls[0].Arguments.Get(1).(*notification.Notification)
	assert.Equal(t, notification.TypeProductApproved, n.Type)
	assert.Equal(t, sellerID, n.UserID)
	assert.Contains(t, n.Body, "Stroller")

	ts.mockRepo.AssertExpectations(t)
	ts.mockListingRepo.AssertExpectations(t)
	ts.mockNotification.AssertExpectations(t)
}

func TestModerationService_Approve_NonAdminForbidden(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)

	_, err := ts.service.Approve(context.Background(), uuid.New(), uuid.New(), common.RoleUser)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	ts.mockListingRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationService_Approve_AlreadyActiveInvalidState(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	l := pendingListing(uuid.New())
	l.Status = listing.StatusActive
	l.Visible = true

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()

	_, err := ts.service.Approve(ctx, l.ID, uuid.New(), common.RoleAdmin)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))
	ts.mockRepo.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything, mock.Anything)
	ts.mockNotification.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

// --- Reject ---

func TestModerationService_Reject_Success(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	sellerID := uuid.New()
	adminID := uuid.New()
	l := pendingListing(sellerID)

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()
	ts.mockRepo.On("ApplyDecision", ctx, l, mock.AnythingOfType("*moderation.ModerationEvent")).Return(nil).Once()
	ts.mockNotification.On("Dispatch", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	result, err := ts.service.Reject(ctx, l.ID, adminID, common.RoleAdmin, "Poor photos")

	assert.NoError(t, err)
	assert.Equal(t, listing.StatusRejected, result.Listing.Status)
	assert.False(t, result.Listing.Visible)
	assert.False(t, result.Listing.IsPubliclyVisible())
	assert.NotNil(t, result.Listing.RejectedReason)
	assert.Equal(t, "Poor photos", *result.Listing.RejectedReason)
	assert.NotNil(t, result.Listing.RejectedAt)
	assert.Equal(t, adminID, *result.Listing.RejectedBy)
	assert.True(t, result.NotificationDelivered)

	event := ts.mockRepo.Calls[0].Arguments.Get(2).(*ModerationEvent)
	assert.Equal(t, ActionReject, event.Action)
	assert.Equal(t, "Poor photos", *event.Reason)

	n := ts.mockNotification.Calls[0].Arguments.Get(1).(*notification.Notification)
	assert.Equal(t, notification.TypeProductRejected, n.Type)
	assert.Equal(t, sellerID, n.UserID)
	assert.Contains(t, n.Body, "Stroller")
	assert.Contains(t, n.Body, "Poor photos")

	ts.mockRepo.AssertExpectations(t)
	ts.mockNotification.AssertExpectations(t)
}

func TestModerationService_Reject_BlankReasonNoSideEffects(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)

	_, err := ts.service.Reject(context.Background(), uuid.New(), uuid.New(), common.RoleAdmin, "   ")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	ts.mockListingRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	ts.mockRepo.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything, mock.Anything)
	ts.mockNotification.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestModerationService_Reject_AlreadyRejectedInvalidState(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	l := pendingListing(uuid.New())
	reason := "Spam"
	l.Status = listing.StatusRejected
	l.RejectedReason = &reason

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()

	_, err := ts.service.Reject(ctx, l.ID, uuid.New(), common.RoleAdmin, "Still spam")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))
	ts.mockRepo.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationService_Reject_SucceedsWhenNotificationFails(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	l := pendingListing(uuid.New())

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()
	ts.mockRepo.On("ApplyDecision", ctx, l, mock.AnythingOfType("*moderation.ModerationEvent")).Return(nil).Once()
	ts.mockNotification.On("Dispatch", ctx, mock.AnythingOfType("*notification.Notification")).
		Return(common.ErrDependencyFailure).Once()

	result, err := ts.service.Reject(ctx, l.ID, uuid.New(), common.RoleAdmin, "Poor photos")

	// The decision stands even though delivery failed; the redelivery job
	// covers the missing notification, and the caller sees a warning.
	assert.NoError(t, err)
	assert.Equal(t, listing.StatusRejected, result.Listing.Status)
	assert.False(t, result.NotificationDelivered)
	ts.mockNotification.AssertExpectations(t)
}

// --- Resubmit ---

func TestModerationService_Resubmit_Success(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	sellerID := uuid.New()
	l := pendingListing(sellerID)
	reason := "Poor photos"
	rejectedAt := time.Now().Add(-time.Hour)
	l.Status = listing.StatusRejected
	l.RejectedReason = &reason
	l.RejectedAt = &rejectedAt

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()
	ts.mockRepo.On("ApplyDecision", ctx, l, mock.AnythingOfType("*moderation.ModerationEvent")).Return(nil).Once()

	result, err := ts.service.Resubmit(ctx, l.ID, sellerID)

	assert.NoError(t, err)
	assert.Equal(t, listing.StatusPending, result.Status)
	assert.False(t, result.Visible)
	assert.NotNil(t, result.ResubmittedAt)
	// The rejection history stays on the listing.
	assert.Equal(t, "Poor photos", *result.RejectedReason)
	assert.Equal(t, rejectedAt, *result.RejectedAt)

	event := ts.mockRepo.Calls[0].Arguments.Get(2).(*ModerationEvent)
	assert.Equal(t, ActionResubmit, event.Action)
	assert.Equal(t, sellerID, event.ActorID)

	ts.mockNotification.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestModerationService_Resubmit_NonOwnerForbidden(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	l := pendingListing(uuid.New())
	l.Status = listing.StatusRejected

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()

	_, err := ts.service.Resubmit(ctx, l.ID, uuid.New())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	ts.mockRepo.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationService_Resubmit_FromPendingInvalidState(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	sellerID := uuid.New()
	l := pendingListing(sellerID)

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil).Once()

	_, err := ts.service.Resubmit(ctx, l.ID, sellerID)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidState))
}

// --- Queue and stats ---

func TestModerationService_PendingQueue(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	queue := []listing.Listing{*pendingListing(uuid.New()), *pendingListing(uuid.New())}
	pagination := common.NewPagination(2, 1, 10)

	ts.mockListingRepo.On("FindByStatus", ctx, listing.StatusPending, 1, 10).
		Return(queue, pagination, nil).Once()

	result, p, err := ts.service.PendingQueue(ctx, 1, 10)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), p.TotalItems)
	ts.mockListingRepo.AssertExpectations(t)
}

func TestModerationService_Stats(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()

	ts.mockListingRepo.On("CountByStatus", ctx).Return(map[listing.ListingStatus]int64{
		listing.StatusPending:  3,
		listing.StatusActive:   10,
		listing.StatusRejected: 2,
	}, nil).Once()

	stats, err := ts.service.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(10), stats.Active)
	assert.Equal(t, int64(2), stats.Rejected)
	assert.Equal(t, int64(0), stats.Sold)
}

// --- Full review cycle ---

// A seller submits a stroller, a moderator rejects it for poor photos, the
// seller resubmits, and a moderator approves it. The listing only becomes
// publicly visible at the very end.
func TestModerationService_RejectResubmitApproveCycle(t *testing.T) {
	ts := setupModerationServiceTestSuite(t)
	ctx := context.Background()
	sellerID := uuid.New()
	adminID := uuid.New()
	l := pendingListing(sellerID)

	ts.mockListingRepo.On("FindByID", ctx, l.ID, true).Return(l, nil)
	ts.mockRepo.On("ApplyDecision", ctx, l, mock.AnythingOfType("*moderation.ModerationEvent")).Return(nil)
	ts.mockNotification.On("Dispatch", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

	assert.False(t, l.IsPubliclyVisible())

	rejected, err := ts.service.Reject(ctx, l.ID, adminID, common.RoleAdmin, "Poor photos")
	assert.NoError(t, err)
	assert.Equal(t, listing.StatusRejected, rejected.Listing.Status)
	assert.False(t, rejected.Listing.IsPubliclyVisible())

	resubmitted, err := ts.service.Resubmit(ctx, l.ID, sellerID)
	assert.NoError(t, err)
	assert.Equal(t, listing.StatusPending, resubmitted.Status)
	assert.Equal(t, "Poor photos", *resubmitted.RejectedReason)
	assert.False(t, resubmitted.IsPubliclyVisible())

	approved, err := ts.service.Approve(ctx, l.ID, adminID, common.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, listing.StatusActive, approved.Listing.Status)
	assert.True(t, approved.Listing.IsPubliclyVisible())

	// One event per transition, one notification per decision.
	ts.mockRepo.AssertNumberOfCalls(t, "ApplyDecision", 3)
	ts.mockNotification.AssertNumberOfCalls(t, "Dispatch", 2)

	actions := make([]ModerationAction, 0, 3)
	for _, call := range ts.mockRepo.Calls {
		actions = append(actions, call.Arguments.Get(2).(*ModerationEvent).Action)
	}
	assert.Equal(t, []ModerationAction{ActionReject, ActionResubmit, ActionApprove}, actions)
}
