// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"miniblocket_backend/internal/auth"
	"miniblocket_backend/internal/category"
	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/config"
	"miniblocket_backend/internal/conversation"
	"miniblocket_backend/internal/favorite"
	"miniblocket_backend/internal/jobs"
	"miniblocket_backend/internal/listing"
	"miniblocket_backend/internal/middleware"
	"miniblocket_backend/internal/moderation"
	"miniblocket_backend/internal/notification"
	"miniblocket_backend/internal/platform/database"
	"miniblocket_backend/internal/report"
	"miniblocket_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB

	categoryService category.Service

	// Jobs
	redeliveryJob *jobs.NotificationRedeliveryJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	tokenService auth.TokenService,
	categoryService category.Service,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	categoryHandler *category.Handler,
	listingHandler *listing.Handler,
	moderationHandler *moderation.Handler,
	notificationHandler *notification.Handler,
	favoriteHandler *favorite.Handler,
	reportHandler *report.Handler,
	conversationHandler *conversation.Handler,
	redeliveryJob *jobs.NotificationRedeliveryJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"*"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(tokenService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)
	rateLimitMW := middleware.RateLimit(cfg)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "MiniBlocket API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW, rateLimitMW)
	userHandler.RegisterRoutes(v1, authMW)
	categoryHandler.RegisterRoutes(v1)
	listingHandler.RegisterRoutes(v1, authMW, optionalAuthMW)
	moderationHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	notificationHandler.RegisterRoutes(v1, authMW)
	favoriteHandler.RegisterRoutes(v1, authMW)
	reportHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	conversationHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		logger:          logger,
		db:              db,
		categoryService: categoryService,
		redeliveryJob:   redeliveryJob,
	}, nil
}

// Start migrates the schema, seeds reference data, starts the background
// jobs, and serves HTTP until shutdown.
func (s *Server) Start() error {
	if err := database.AutoMigrate(s.db); err != nil {
		s.logger.Error("Failed to run schema migration", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.categoryService.EnsureDefaults(ctx); err != nil {
		s.logger.Error("Failed to seed default categories", zap.Error(err))
		return err
	}

	if s.redeliveryJob != nil {
		if err := s.redeliveryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start notification redelivery job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.redeliveryJob != nil {
		s.redeliveryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
