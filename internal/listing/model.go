// File: internal/listing/model.go
package listing

import (
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/user"

	"github.com/google/uuid"
)

// ListingStatus is the moderation lifecycle state of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusActive   ListingStatus = "active"
	StatusRejected ListingStatus = "rejected"
	StatusSold     ListingStatus = "sold"
)

// Listing represents one item for sale.
type Listing struct {
	common.BaseModel
	SellerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Seller      *user.User `gorm:"foreignKey:SellerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Price       int64      `gorm:"not null"` // whole kronor, never negative
	Category    string     `gorm:"type:varchar(100);not null;index"`
	Location    string     `gorm:"type:varchar(100);not null;index"`
	Description string     `gorm:"type:text"`

	Status  ListingStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	Visible bool          `gorm:"not null;default:false"`

	// Rejection fields stay populated after a resubmit so the trail is preserved.
	RejectedReason *string `gorm:"type:text"`
	RejectedAt     *time.Time
	RejectedBy     *uuid.UUID `gorm:"type:uuid"`
	ResubmittedAt  *time.Time

	Images []ListingImage `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE;"`
}

func (Listing) TableName() string {
	return "listings"
}

// IsPubliclyVisible is the single source of truth for public feed inclusion.
func (l *Listing) IsPubliclyVisible() bool {
	return l.Status == StatusActive && l.Visible
}

// ListingImage is one ordered image URL belonging to a listing.
type ListingImage struct {
	common.BaseModel
	ListingID uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

// --- DTOs for API ---

type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=255"`
	Price       int64    `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Description string   `json:"description,omitempty" binding:"omitempty,max=4000"`
	ImageURLs   []string `json:"image_urls,omitempty" binding:"omitempty,dive,url"`
}

type UpdateListingRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Price       *int64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=4000"`
	ImageURLs   []string `json:"image_urls,omitempty" binding:"omitempty,dive,url"`
}

// SearchQuery holds the public feed filters. All filters are conjunctive.
type SearchQuery struct {
	common.PaginationQuery
	Query      string   `form:"q"`
	Location   string   `form:"location"`
	Categories []string `form:"category"`
}

type ListingImageResponse struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sort_order"`
}

type ListingResponse struct {
	ID             uuid.UUID              `json:"id"`
	SellerID       uuid.UUID              `json:"seller_id"`
	Seller         *user.UserResponse     `json:"seller,omitempty"`
	Title          string                 `json:"title"`
	Price          int64                  `json:"price"`
	Category       string                 `json:"category"`
	Location       string                 `json:"location"`
	Description    string                 `json:"description,omitempty"`
	Status         ListingStatus          `json:"status"`
	Visible        bool                   `json:"visible"`
	RejectedReason *string                `json:"rejected_reason,omitempty"`
	RejectedAt     *time.Time             `json:"rejected_at,omitempty"`
	ResubmittedAt  *time.Time             `json:"resubmitted_at,omitempty"`
	Images         []ListingImageResponse `json:"images"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToListingResponse converts a Listing model to a ListingResponse DTO.
func ToListingResponse(l *Listing) ListingResponse {
	resp := ListingResponse{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Price:          l.Price,
		Category:       l.Category,
		Location:       l.Location,
		Description:    l.Description,
		Status:         l.Status,
		Visible:        l.Visible,
		RejectedReason: l.RejectedReason,
		RejectedAt:     l.RejectedAt,
		ResubmittedAt:  l.ResubmittedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}

	if l.Seller != nil {
		sellerResp := user.ToUserResponse(l.Seller)
		resp.Seller = &sellerResp
	}

	resp.Images = make([]ListingImageResponse, len(l.Images))
	for i, img := range l.Images {
		resp.Images[i] = ListingImageResponse{
			URL:       img.URL,
			SortOrder: img.SortOrder,
		}
	}
	return resp
}
