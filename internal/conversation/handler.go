// File: internal/conversation/handler.go
package conversation

import (
	"errors"

	"miniblocket_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up messaging routes. All require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	conversationGroup := router.Group("/conversations")
	conversationGroup.Use(authMW)
	{
		conversationGroup.POST("", h.contactSeller)
		conversationGroup.GET("", h.listConversations)
		conversationGroup.GET("/:id/messages", h.getMessages)
		conversationGroup.POST("/:id/messages", h.sendMessage)
		conversationGroup.POST("/:id/mark-viewed", h.markViewed)
		conversationGroup.POST("/:id/hide", h.hideConversation)
	}
}

func (h *Handler) contactSeller(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	var req ContactSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	conversation, err := h.service.ContactSeller(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Conversation started.", ToConversationResponse(conversation, userID))
}

func (h *Handler) listConversations(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	conversations, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]ConversationResponse, len(conversations))
	for i := range conversations {
		responses[i] = ToConversationResponse(&conversations[i], userID)
	}
	common.RespondOK(c, "Conversations retrieved successfully.", responses)
}

func (h *Handler) getMessages(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid conversation ID format."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)

	messages, pagination, err := h.service.Messages(c.Request.Context(), conversationID, userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = ToMessageResponse(&messages[i])
	}
	common.RespondPaginated(c, "Messages retrieved successfully.", responses, pagination)
}

func (h *Handler) sendMessage(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid conversation ID format."))
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	message, err := h.service.Send(c.Request.Context(), conversationID, userID, req.Body)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent.", ToMessageResponse(message))
}

func (h *Handler) markViewed(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid conversation ID format."))
		return
	}

	if err := h.service.MarkViewed(c.Request.Context(), conversationID, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Conversation marked as viewed.", nil)
}

func (h *Handler) hideConversation(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid conversation ID format."))
		return
	}

	if err := h.service.Hide(c.Request.Context(), conversationID, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Conversation hidden.", nil)
}
