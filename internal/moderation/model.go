// File: internal/moderation/model.go
package moderation

import (
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
)

// ModerationAction enumerates what a moderation event records.
type ModerationAction string

const (
	ActionApprove  ModerationAction = "approve"
	ActionReject   ModerationAction = "reject"
	ActionResubmit ModerationAction = "resubmit"
)

// ModerationEvent is an append-only audit record of a review decision or a
// seller resubmission. Events are never updated or deleted.
type ModerationEvent struct {
	common.BaseModel
	ListingID uuid.UUID        `gorm:"type:uuid;not null;index" json:"listing_id"`
	Action    ModerationAction `gorm:"type:varchar(20);not null" json:"action"`
	Reason    *string          `gorm:"type:text" json:"reason,omitempty"`
	ActorID   uuid.UUID        `gorm:"type:uuid;not null" json:"actor_id"`
}

// TableName specifies the table name for GORM.
func (ModerationEvent) TableName() string {
	return "moderation_events"
}

// DecisionResult is what a review decision returns: the listing in its new
// state and whether the seller notification went out. The decision itself has
// already committed either way.
type DecisionResult struct {
	Listing               *listing.Listing
	NotificationDelivered bool
}

// DecisionResponse is the API shape of a committed decision. Warning is set
// when the seller notification could not be delivered.
type DecisionResponse struct {
	Listing listing.ListingResponse `json:"listing"`
	Warning *string                 `json:"warning,omitempty"`
}

// RejectRequest carries the moderator's reason for rejecting a listing.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ModerationEventResponse is the API shape of an audit event.
type ModerationEventResponse struct {
	ID        uuid.UUID        `json:"id"`
	ListingID uuid.UUID        `json:"listing_id"`
	Action    ModerationAction `json:"action"`
	Reason    *string          `json:"reason,omitempty"`
	ActorID   uuid.UUID        `json:"actor_id"`
	CreatedAt time.Time        `json:"created_at"`
}

// StatsResponse summarizes listing counts per review state.
type StatsResponse struct {
	Pending  int64 `json:"pending"`
	Active   int64 `json:"active"`
	Rejected int64 `json:"rejected"`
	Sold     int64 `json:"sold"`
}

// ToModerationEventResponse maps a ModerationEvent to its API representation.
func ToModerationEventResponse(e *ModerationEvent) ModerationEventResponse {
	return ModerationEventResponse{
		ID:        e.ID,
		ListingID: e.ListingID,
		Action:    e.Action,
		Reason:    e.Reason,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}
