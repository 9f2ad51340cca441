// File: internal/listing/handler.go
package listing

import (
	"errors"

	"miniblocket_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for listing handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for listing operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, optionalAuthMW gin.HandlerFunc) {
	listingGroup := router.Group("/listings")
	{
		listingGroup.GET("", h.searchListings)
		listingGroup.GET("/:id", optionalAuthMW, h.getListingByID)

		authedListingGroup := listingGroup.Group("")
		authedListingGroup.Use(authMW)
		{
			authedListingGroup.POST("", h.createListing)
			authedListingGroup.PATCH("/:id", h.updateListing)
			authedListingGroup.DELETE("/:id", h.deleteListing)
			authedListingGroup.POST("/:id/toggle-sold", h.toggleSold)
			authedListingGroup.GET("/mine", h.getMyListings)
			authedListingGroup.GET("/mine/sold", h.getMySoldListings)
		}
	}
}

func (h *Handler) createListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create listing: Invalid request payload", zap.Error(err), zap.String("userID", userID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), userID, common.GetUserRoleFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Listing created successfully.", ToListingResponse(listing))
}

func (h *Handler) getListingByID(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.GetListingByID(c.Request.Context(), listingID,
		common.GetUserIDFromContext(c), common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing retrieved successfully.", ToListingResponse(listing))
}

func (h *Handler) searchListings(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("Search listings: Invalid query parameters", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	listings, pagination, err := h.service.SearchPublic(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	listingResponses := make([]ListingResponse, len(listings))
	for i := range listings {
		listingResponses[i] = ToListingResponse(&listings[i])
	}
	common.RespondPaginated(c, "Listings retrieved successfully.", listingResponses, pagination)
}

func (h *Handler) getMyListings(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	listings, err := h.service.GetOwnListings(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	listingResponses := make([]ListingResponse, len(listings))
	for i := range listings {
		listingResponses[i] = ToListingResponse(&listings[i])
	}
	common.RespondOK(c, "Listings retrieved successfully.", listingResponses)
}

func (h *Handler) getMySoldListings(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	listings, err := h.service.GetSoldListings(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	listingResponses := make([]ListingResponse, len(listings))
	for i := range listings {
		listingResponses[i] = ToListingResponse(&listings[i])
	}
	common.RespondOK(c, "Sold listings retrieved successfully.", listingResponses)
}

func (h *Handler) updateListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update listing: Invalid request payload", zap.Error(err), zap.String("listingID", listingID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), listingID, userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing updated successfully.", ToListingResponse(listing))
}

func (h *Handler) toggleSold(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.ToggleSold(c.Request.Context(), listingID, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing sold state updated.", ToListingResponse(listing))
}

func (h *Handler) deleteListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), listingID, userID, common.GetUserRoleFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
