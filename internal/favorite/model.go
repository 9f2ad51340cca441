// File: internal/favorite/model.go
package favorite

import (
	"time"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/google/uuid"
)

// Favorite marks a listing a user wants to keep an eye on. A user can
// favorite a listing at most once.
type Favorite struct {
	common.BaseModel
	UserID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing" json:"user_id"`
	ListingID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_listing" json:"listing_id"`
	Listing   *listing.Listing `gorm:"foreignKey:ListingID" json:"-"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteResponse is the API shape of a favorite with its listing.
type FavoriteResponse struct {
	ID        uuid.UUID                `json:"id"`
	ListingID uuid.UUID                `json:"listing_id"`
	Listing   *listing.ListingResponse `json:"listing,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// ToggleResponse reports the resulting state after a toggle.
type ToggleResponse struct {
	ListingID uuid.UUID `json:"listing_id"`
	Favorited bool      `json:"favorited"`
}

// ToFavoriteResponse maps a Favorite to its API representation.
func ToFavoriteResponse(f *Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        f.ID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
	if f.Listing != nil {
		lr := listing.ToListingResponse(f.Listing)
		resp.Listing = &lr
	}
	return resp
}
