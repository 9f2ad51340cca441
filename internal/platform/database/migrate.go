// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"miniblocket_backend/internal/category"
	"miniblocket_backend/internal/conversation"
	"miniblocket_backend/internal/favorite"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/moderation"
	"miniblocket_backend/internal/notification"
	"miniblocket_backend/internal/report"
	"miniblocket_backend/internal/user"

	"gorm.io/gorm"
)

// AutoMigrate brings the schema up to date for all application models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&listing.Listing{},
		&listing.ListingImage{},
		&moderation.ModerationEvent{},
		&notification.Notification{},
		&favorite.Favorite{},
		&report.Report{},
		&conversation.Conversation{},
		&conversation.Message{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
