// File: internal/conversation/model.go
package conversation

import (
	"time"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
)

// Conversation is a buyer/seller message thread about a listing. The listing
// title is denormalized so the thread keeps working after the listing is
// deleted; there is no foreign key to listings on purpose.
type Conversation struct {
	common.BaseModel
	ListingID     uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_listing_buyer,unique" json:"listing_id"`
	ListingTitle  string    `gorm:"type:varchar(255);not null" json:"listing_title"`
	BuyerID       uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_listing_buyer,unique" json:"buyer_id"`
	SellerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	LastMessage   string    `gorm:"type:text" json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	BuyerUnread   int       `gorm:"not null;default:0" json:"buyer_unread"`
	SellerUnread  int       `gorm:"not null;default:0" json:"seller_unread"`
	BuyerHidden   bool      `gorm:"not null;default:false" json:"-"`
	SellerHidden  bool      `gorm:"not null;default:false" json:"-"`
}

// TableName specifies the table name for GORM.
func (Conversation) TableName() string {
	return "conversations"
}

// IsParticipant reports whether the user is one side of the conversation.
func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// Message is a single message inside a conversation.
type Message struct {
	common.BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body           string    `gorm:"type:text;not null" json:"body"`
}

// TableName specifies the table name for GORM.
func (Message) TableName() string {
	return "messages"
}

// ContactSellerRequest opens (or reuses) a thread about a listing.
type ContactSellerRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Message   string    `json:"message" binding:"omitempty,max=4000"`
}

// SendMessageRequest is the payload for sending a message in a thread.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

// ConversationResponse is the API shape of a thread from one user's side.
type ConversationResponse struct {
	ID            uuid.UUID `json:"id"`
	ListingID     uuid.UUID `json:"listing_id"`
	ListingTitle  string    `json:"listing_title"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	Unread        int       `json:"unread"`
	CreatedAt     time.Time `json:"created_at"`
}

// MessageResponse is the API shape of a message.
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToConversationResponse maps a thread to its API shape for the given viewer,
// picking that side's unread count.
func ToConversationResponse(c *Conversation, viewerID uuid.UUID) ConversationResponse {
	unread := c.BuyerUnread
	if viewerID == c.SellerID {
		unread = c.SellerUnread
	}
	return ConversationResponse{
		ID:            c.ID,
		ListingID:     c.ListingID,
		ListingTitle:  c.ListingTitle,
		BuyerID:       c.BuyerID,
		SellerID:      c.SellerID,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		Unread:        unread,
		CreatedAt:     c.CreatedAt,
	}
}

// ToMessageResponse maps a Message to its API representation.
func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
