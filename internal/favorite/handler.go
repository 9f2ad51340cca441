// File: internal/favorite/handler.go
package favorite

import (
	"miniblocket_backend/internal/common"

	"github.com/gin-gonic/gin"
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

// RegisterRoutes sets up favorite routes. All require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	favoriteGroup := router.Group("/favorites")
	favoriteGroup.Use(authMW)
	{
		favoriteGroup.GET("", h.listFavorites)
		favoriteGroup.POST("/:listing_id/toggle", h.toggleFavorite)
	}
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	favorited, err := h.service.Toggle(c.Request.Context(), userID, listingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite toggled.", ToggleResponse{ListingID: listingID, Favorited: favorited})
}

func (h *Handler) listFavorites(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	favorites, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]FavoriteResponse, len(favorites))
	for i := range favorites {
		responses[i] = ToFavoriteResponse(&favorites[i])
	}
	common.RespondOK(c, "Favorites retrieved successfully.", responses)
}
