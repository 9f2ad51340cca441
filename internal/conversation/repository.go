// File: internal/conversation/repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	FindByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*Conversation, error)
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
	CreateMessage(ctx context.Context, message *Message) error
	FindMessages(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM conversation repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, conversation *Conversation) error {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conversation Conversation
	err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Conversation not found.")
		}
		return nil, fmt.Errorf("failed to find conversation %s: %w", id, err)
	}
	return &conversation, nil
}

// FindByListingAndBuyer returns the existing thread for a listing/buyer pair,
// or nil when the buyer has not contacted the seller yet.
func (r *gormRepository) FindByListingAndBuyer(ctx context.Context, listingID, buyerID uuid.UUID) (*Conversation, error) {
	var conversation Conversation
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND buyer_id = ?", listingID, buyerID).
		First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conversation for listing %s: %w", listingID, err)
	}
	return &conversation, nil
}

// FindByParticipant returns a user's threads, most recently active first.
// Threads the user has hidden are excluded.
func (r *gormRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	var conversations []Conversation
	err := r.db.WithContext(ctx).
		Where("(buyer_id = ? AND buyer_hidden = ?) OR (seller_id = ? AND seller_hidden = ?)",
			userID, false, userID, false).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations for user %s: %w", userID, err)
	}
	return conversations, nil
}

func (r *gormRepository) Update(ctx context.Context, conversation *Conversation) error {
	if err := r.db.WithContext(ctx).Save(conversation).Error; err != nil {
		return fmt.Errorf("failed to update conversation %s: %w", conversation.ID, err)
	}
	return nil
}

func (r *gormRepository) CreateMessage(ctx context.Context, message *Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// FindMessages returns a page of a thread's messages, oldest first.
func (r *gormRepository) FindMessages(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error) {
	var messages []Message
	var total int64

	query := r.db.WithContext(ctx).Model(&Message{}).Where("conversation_id = ?", conversationID)
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count messages: %w", err)
	}

	pagination := common.NewPagination(total, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := query.Order("created_at ASC").
		Limit(pagination.PageSize).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch messages for conversation %s: %w", conversationID, err)
	}
	return messages, pagination, nil
}
