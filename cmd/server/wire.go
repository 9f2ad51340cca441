// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"miniblocket_backend/internal/app"
	"miniblocket_backend/internal/auth"
	"miniblocket_backend/internal/category"
	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/conversation"
	"miniblocket_backend/internal/favorite"
	"miniblocket_backend/internal/jobs"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/moderation"
	"miniblocket_backend/internal/notification"
	"miniblocket_backend/internal/platform/database"
	"miniblocket_backend/internal/platform/logger"
	"miniblocket_backend/internal/report"
	"miniblocket_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Auth
		auth.NewTokenService,
		auth.NewService,
		auth.NewHandler,

		// Users
		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,

		// Categories
		category.NewGORMRepository,
		category.NewService,
		category.NewHandler,

		// Listings
		listing.NewGORMRepository,
		listing.NewService,
		listing.NewHandler,

		// Moderation
		moderation.NewGORMRepository,
		moderation.NewService,
		moderation.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		provideNotificationService,
		notification.NewHandler,

		// Favorites
		favorite.NewGORMRepository,
		favorite.NewService,
		favorite.NewHandler,

		// Reports
		report.NewGORMRepository,
		report.NewService,
		report.NewHandler,

		// Conversations
		conversation.NewGORMRepository,
		conversation.NewService,
		conversation.NewHandler,

		// Jobs
		jobs.NewNotificationRedeliveryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
