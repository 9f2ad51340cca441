// File: internal/notification/model.go
package notification

import (
	"fmt"
	"time"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	TypeProductApproved NotificationType = "product_approved"
	TypeProductRejected NotificationType = "product_rejected"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	common.BaseModel
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_read" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Body      string           `gorm:"type:text;not null" json:"body"`
	ListingID *uuid.UUID       `gorm:"type:uuid;index" json:"listing_id,omitempty"`
	IsRead    bool             `gorm:"not null;default:false;index:idx_notification_user_read" json:"is_read"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// NewProductApproved builds the notification sent to a seller when their
// listing passes review.
func NewProductApproved(sellerID, listingID uuid.UUID, listingTitle string) *Notification {
	return &Notification{
		UserID:    sellerID,
		Type:      TypeProductApproved,
		Title:     "Annons godkänd",
		Body:      fmt.Sprintf("Din annons \"%s\" har godkänts och är nu synlig för köpare.", listingTitle),
		ListingID: &listingID,
	}
}

// NewProductRejected builds the notification sent to a seller when their
// listing is rejected. The body carries the moderator's reason so the seller
// knows what to fix before resubmitting.
func NewProductRejected(sellerID, listingID uuid.UUID, listingTitle, reason string) *Notification {
	return &Notification{
		UserID:    sellerID,
		Type:      TypeProductRejected,
		Title:     "Annons nekad",
		Body:      fmt.Sprintf("Din annons \"%s\" har nekats. Anledning: %s", listingTitle, reason),
		ListingID: &listingID,
	}
}

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	ListingID *uuid.UUID       `json:"listing_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// MarkReadRequest carries the IDs of notifications to mark as read.
type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// ToNotificationResponse maps a Notification to its API representation.
func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		ListingID: n.ListingID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
