// File: internal/category/model.go
package category

import (
	"time"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
)

// Category represents the category model in the database.
type Category struct {
	common.BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// DefaultNames is the fixed category set listings are created against.
var DefaultNames = []string{
	"Leksaker",
	"Barnvagn",
	"Bilbarnstol",
	"Kläder",
	"Möbler",
}

// Locations is the fixed set of cities a listing can be placed in.
var Locations = []string{
	"Stockholm",
	"Göteborg",
	"Malmö",
	"Uppsala",
	"Linköping",
	"Örebro",
	"Västerås",
	"Helsingborg",
}

// IsValidLocation reports whether loc is one of the allowed cities.
func IsValidLocation(loc string) bool {
	for _, l := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// --- DTOs ---

// CategoryResponse defines the structure for category data sent in API responses.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converts a Category model to a CategoryResponse DTO.
func ToCategoryResponse(category *Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}
