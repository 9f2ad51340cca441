// File: internal/user/model.go
package user

import (
	"time"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
)

// User represents a marketplace profile in the database.
type User struct {
	common.BaseModel        // Embeds ID, CreatedAt, UpdatedAt
	Name             string `gorm:"type:varchar(150);not null"`
	Email            string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     string `gorm:"type:varchar(255);not null" json:"-"`
	Role             string `gorm:"type:varchar(50);not null;default:'user'"` // "user" or "admin"
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "user_profiles"
}

// IsAdmin reports whether the user has moderation authority.
func (u *User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}

// --- DTOs ---

// UpdateProfileRequest defines the structure for updating the caller's profile.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,min=1,max=150"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
