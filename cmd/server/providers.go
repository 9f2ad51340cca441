// File: cmd/server/providers.go
package main

import (
	"log"

	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/notification"
	"miniblocket_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideNotificationService(repo notification.Repository, cfg *config.Config, l *zap.Logger) notification.Service {
	return notification.NewService(repo, cfg.UnreadNotificationLimit, l)
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
