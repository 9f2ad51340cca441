// File: internal/moderation/handler.go
package moderation

import (
	"errors"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/listing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for moderation handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new moderation handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up moderation routes. Resubmission is a seller action;
// everything else is admin-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.POST("/listings/:id/resubmit", authMW, h.resubmitListing)

	adminGroup := router.Group("/admin")
	adminGroup.Use(authMW)
	adminGroup.Use(adminRoleMW)
	{
		adminGroup.GET("/listings/pending", h.getPendingQueue)
		adminGroup.POST("/listings/:id/approve", h.approveListing)
		adminGroup.POST("/listings/:id/reject", h.rejectListing)
		adminGroup.GET("/listings/:id/events", h.getListingEvents)
		adminGroup.GET("/stats", h.getStats)
	}
}

func (h *Handler) approveListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	result, err := h.service.Approve(c.Request.Context(), listingID,
		common.GetUserIDFromContext(c), common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing approved.", toDecisionResponse(result))
}

func (h *Handler) rejectListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.service.Reject(c.Request.Context(), listingID,
		common.GetUserIDFromContext(c), common.GetUserRoleFromContext(c), req.Reason)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing rejected.", toDecisionResponse(result))
}

// toDecisionResponse maps a committed decision to its API shape, attaching a
// warning when the seller notification did not go out.
func toDecisionResponse(result *DecisionResult) DecisionResponse {
	resp := DecisionResponse{Listing: listing.ToListingResponse(result.Listing)}
	if !result.NotificationDelivered {
		warning := "The decision was saved, but the seller notification could not be delivered. It will be retried automatically."
		resp.Warning = &warning
	}
	return resp
}

func (h *Handler) resubmitListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	l, err := h.service.Resubmit(c.Request.Context(), listingID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing resubmitted for review.", listing.ToListingResponse(l))
}

func (h *Handler) getPendingQueue(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	listings, pagination, err := h.service.PendingQueue(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]listing.ListingResponse, len(listings))
	for i := range listings {
		responses[i] = listing.ToListingResponse(&listings[i])
	}
	common.RespondPaginated(c, "Pending listings retrieved successfully.", responses, pagination)
}

func (h *Handler) getListingEvents(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	events, err := h.service.EventsForListing(c.Request.Context(), listingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]ModerationEventResponse, len(events))
	for i := range events {
		responses[i] = ToModerationEventResponse(&events[i])
	}
	common.RespondOK(c, "Moderation events retrieved successfully.", responses)
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Moderation stats retrieved successfully.", stats)
}
