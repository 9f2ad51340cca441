// File: internal/conversation/service_test.go
package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock type for conversation.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, conversation *Conversation) error {
	args := m.Called(ctx, conversation)
	if args.Error(0) == nil {
		conversation.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *MockRepository) FindByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*Conversation, error) {
	args := m.Called(ctx, listingID, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conversation), args.Error(1)
}

func (m *MockRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	args := m.Called(ctx, userID)
	var conversations []Conversation
	if args.Get(0) != nil {
		conversations = args.Get(0).([]Conversation)
	}
	return conversations, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, conversation *Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockRepository) CreateMessage(ctx context.Context, message *Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockRepository) FindMessages(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error) {
	args := m.Called(ctx, conversationID, page, pageSize)
	var messages []Message
	if args.Get(0) != nil {
		messages = args.Get(0).([]Message)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return messages, pagination, args.Error(2)
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

func setupConversationServiceTestSuite() (Service, *MockRepository, *MockListingRepository) {
	mockRepo := new(MockRepository)
	mockListingRepo := new(MockListingRepository)
	service := NewService(mockRepo, mockListingRepo, zap.NewNop())
	return service, mockRepo, mockListingRepo
}

func activeListing(sellerID uuid.UUID) *listing.Listing {
	l := &listing.Listing{
		SellerID: sellerID,
		Title:    "Barnvagn i fint skick",
		Status:   listing.StatusActive,
		Visible:  true,
	}
	l.ID = uuid.New()
	return l
}

func TestConversationService_ContactSeller_StartsThreadWithDefaultGreeting(t *testing.T) {
	service, mockRepo, mockListingRepo := setupConversationServiceTestSuite()
	ctx := context.Background()
	sellerID := uuid.New()
	buyerID := uuid.New()
	l := activeListing(sellerID)

	mockListingRepo.On("FindByID", ctx, l.ID, false).Return(l, nil).Once()
	mockRepo.On("FindByListingAndBuyer", ctx, l.ID, buyerID).Return(nil, nil).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*conversation.Conversation")).Return(nil).Once()
	mockRepo.On("CreateMessage", ctx, mock.AnythingOfType("*conversation.Message")).Return(nil).Once()

	conversation, err := service.ContactSeller(ctx, buyerID, ContactSellerRequest{ListingID: l.ID})

	assert.NoError(t, err)
	assert.Equal(t, l.ID, conversation.ListingID)
	assert.Equal(t, "Barnvagn i fint skick", conversation.ListingTitle)
	assert.Equal(t, sellerID, conversation.SellerID)
	assert.Equal(t, buyerID, conversation.BuyerID)
	assert.Equal(t, "Hej! Är den här fortfarande tillgänglig?", conversation.LastMessage)
	assert.Equal(t, 1, conversation.SellerUnread)
	assert.Equal(t, 0, conversation.BuyerUnread)
	mockRepo.AssertExpectations(t)
}

func TestConversationService_ContactSeller_NonPublicListingNotFound(t *testing.T) {
	service, mockRepo, mockListingRepo := setupConversationServiceTestSuite()
	ctx := context.Background()
	buyerID := uuid.New()
	l := activeListing(uuid.New())
	l.Status = listing.StatusPending
	l.Visible = false

	mockListingRepo.On("FindByID", ctx, l.ID, false).Return(l, nil).Once()

	_, err := service.ContactSeller(ctx, buyerID, ContactSellerRequest{ListingID: l.ID})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConversationService_ContactSeller_SelfContactRejected(t *testing.T) {
	service, _, mockListingRepo := setupConversationServiceTestSuite()
	ctx := context.Background()
	sellerID := uuid.New()
	l := activeListing(sellerID)

	mockListingRepo.On("FindByID", ctx, l.ID, false).Return(l, nil).Once()

	_, err := service.ContactSeller(ctx, sellerID, ContactSellerRequest{ListingID: l.ID})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestConversationService_Send_BumpsRecipientUnreadAndUnhides(t *testing.T) {
	service, mockRepo, _ := setupConversationServiceTestSuite()
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()
	conversation := &Conversation{
		BuyerID:       buyerID,
		SellerID:      sellerID,
		LastMessage:   "Hej!",
		LastMessageAt: time.Now().Add(-time.Hour),
		SellerHidden:  true,
	}
	conversation.ID = uuid.New()

	mockRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil).Once()
	mockRepo.On("CreateMessage", ctx, mock.AnythingOfType("*conversation.Message")).Return(nil).Once()
	mockRepo.On("Update", ctx, conversation).Return(nil).Once()

	message, err := service.Send(ctx, conversation.ID, buyerID, "  Kan du skicka fler bilder?  ")

	assert.NoError(t, err)
	assert.Equal(t, "Kan du skicka fler bilder?", message.Body)
	assert.Equal(t, 1, conversation.SellerUnread)
	assert.Equal(t, 0, conversation.BuyerUnread)
	// A new message brings the thread back for a side that hid it.
	assert.False(t, conversation.SellerHidden)
	assert.Equal(t, "Kan du skicka fler bilder?", conversation.LastMessage)
	mockRepo.AssertExpectations(t)
}

func TestConversationService_Send_BlankBodyRejected(t *testing.T) {
	service, mockRepo, _ := setupConversationServiceTestSuite()

	_, err := service.Send(context.Background(), uuid.New(), uuid.New(), "   ")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestConversationService_Send_StrangerForbidden(t *testing.T) {
	service, mockRepo, _ := setupConversationServiceTestSuite()
	ctx := context.Background()
	conversation := &Conversation{BuyerID: uuid.New(), SellerID: uuid.New()}
	conversation.ID = uuid.New()

	mockRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil).Once()

	_, err := service.Send(ctx, conversation.ID, uuid.New(), "Hej")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	mockRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestConversationService_MarkViewed_ClearsOnlyViewerSide(t *testing.T) {
	service, mockRepo, _ := setupConversationServiceTestSuite()
	ctx := context.Background()
	buyerID := uuid.New()
	conversation := &Conversation{
		BuyerID:      buyerID,
		SellerID:     uuid.New(),
		BuyerUnread:  4,
		SellerUnread: 2,
	}
	conversation.ID = uuid.New()

	mockRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil).Once()
	mockRepo.On("Update", ctx, conversation).Return(nil).Once()

	err := service.MarkViewed(ctx, conversation.ID, buyerID)

	assert.NoError(t, err)
	assert.Equal(t, 0, conversation.BuyerUnread)
	assert.Equal(t, 2, conversation.SellerUnread)
}

func TestConversationService_Hide_OnlyHidesViewerSide(t *testing.T) {
	service, mockRepo, _ := setupConversationServiceTestSuite()
	ctx := context.Background()
	sellerID := uuid.New()
	conversation := &Conversation{BuyerID: uuid.New(), SellerID: sellerID}
	conversation.ID = uuid.New()

	mockRepo.On("FindByID", ctx, conversation.ID).Return(conversation, nil).Once()
	mockRepo.On("Update", ctx, conversation).Return(nil).Once()

	err := service.Hide(ctx, conversation.ID, sellerID)

	assert.NoError(t, err)
	assert.True(t, conversation.SellerHidden)
	assert.False(t, conversation.BuyerHidden)
}
