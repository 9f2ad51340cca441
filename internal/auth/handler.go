// File: internal/auth/handler.go
package auth

import (
	"errors"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service     Service
	userService user.Service
	logger      *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, userService user.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes sets up the routes for auth operations. Register/login stay
// public behind the rate limiter; /me requires authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, rateLimitMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", rateLimitMW, h.register)
		authGroup.POST("/login", rateLimitMW, h.login)
		authGroup.GET("/me", authMW, h.me)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Registration: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "User registered successfully.", AuthResponse{
		User:  user.ToUserResponse(usr),
		Token: *token,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Logged in successfully.", AuthResponse{
		User:  user.ToUserResponse(usr),
		Token: *token,
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", user.ToUserResponse(usr))
}
