// File: internal/conversation/service.go
package conversation

import (
	"context"
	"strings"
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines messaging business logic.
type Service interface {
	// ContactSeller opens a thread between the buyer and the listing's
	// seller, reusing the existing one if the buyer already reached out.
	ContactSeller(ctx context.Context, buyerID uuid.UUID, req ContactSellerRequest) (*Conversation, error)
	List(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	Messages(ctx context.Context, conversationID, userID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error)
	Send(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*Message, error)
	MarkViewed(ctx context.Context, conversationID, userID uuid.UUID) error
	Hide(ctx context.Context, conversationID, userID uuid.UUID) error
}

type service struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new conversation Service.
func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.Named("ConversationService"),
	}
}

func (s *service) ContactSeller(ctx context.Context, buyerID uuid.UUID, req ContactSellerRequest) (*Conversation, error) {
	l, err := s.listingRepo.FindByID(ctx, req.ListingID, false)
	if err != nil {
		return nil, err
	}
	if !l.IsPubliclyVisible() {
		return nil, common.ErrNotFound.WithDetails("Listing not found.")
	}
	if l.SellerID == buyerID {
		return nil, common.ErrValidation.WithDetails("You cannot contact yourself about your own listing.")
	}

	existing, err := s.repo.FindByListingAndBuyer(ctx, req.ListingID, buyerID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		body = "Hej! Är den här fortfarande tillgänglig?"
	}

	if existing != nil {
		if _, err := s.Send(ctx, existing.ID, buyerID, body); err != nil {
			return nil, err
		}
		return s.repo.FindByID(ctx, existing.ID)
	}

	now := time.Now()
	conversation := &Conversation{
		ListingID:     l.ID,
		ListingTitle:  l.Title,
		BuyerID:       buyerID,
		SellerID:      l.SellerID,
		LastMessage:   body,
		LastMessageAt: now,
		SellerUnread:  1,
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		s.logger.Error("Failed to create conversation", zap.Error(err), zap.String("listingID", l.ID.String()))
		return nil, err
	}
	if err := s.repo.CreateMessage(ctx, &Message{
		ConversationID: conversation.ID,
		SenderID:       buyerID,
		Body:           body,
	}); err != nil {
		return nil, err
	}
	s.logger.Info("Conversation started",
		zap.String("conversationID", conversation.ID.String()),
		zap.String("listingID", l.ID.String()))
	return conversation, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	return s.repo.FindByParticipant(ctx, userID)
}

func (s *service) Messages(ctx context.Context, conversationID, userID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error) {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conversation.IsParticipant(userID) {
		return nil, nil, common.ErrForbidden.WithDetails("You are not part of this conversation.")
	}
	return s.repo.FindMessages(ctx, conversationID, page, pageSize)
}

// Send appends a message and updates the thread preview. The recipient's
// unread count grows; sending also un-hides the thread for both sides so the
// recipient sees it again.
func (s *service) Send(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.ErrValidation.WithDetails("Message body must not be empty.")
	}

	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.IsParticipant(senderID) {
		return nil, common.ErrForbidden.WithDetails("You are not part of this conversation.")
	}

	message := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		s.logger.Error("Failed to send message", zap.Error(err), zap.String("conversationID", conversationID.String()))
		return nil, err
	}

	conversation.LastMessage = body
	conversation.LastMessageAt = time.Now()
	if senderID == conversation.BuyerID {
		conversation.SellerUnread++
	} else {
		conversation.BuyerUnread++
	}
	conversation.BuyerHidden = false
	conversation.SellerHidden = false
	if err := s.repo.Update(ctx, conversation); err != nil {
		return nil, err
	}
	return message, nil
}

// MarkViewed clears the viewer's unread counter. Idempotent.
func (s *service) MarkViewed(ctx context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.IsParticipant(userID) {
		return common.ErrForbidden.WithDetails("You are not part of this conversation.")
	}

	if userID == conversation.BuyerID {
		conversation.BuyerUnread = 0
	} else {
		conversation.SellerUnread = 0
	}
	return s.repo.Update(ctx, conversation)
}

// Hide removes the thread from the viewer's inbox without deleting anything.
// The other side still sees it, and a new message brings it back.
func (s *service) Hide(ctx context.Context, conversationID, userID uuid.UUID) error {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.IsParticipant(userID) {
		return common.ErrForbidden.WithDetails("You are not part of this conversation.")
	}

	if userID == conversation.BuyerID {
		conversation.BuyerHidden = true
	} else {
		conversation.SellerHidden = true
	}
	return s.repo.Update(ctx, conversation)
}
