// File: internal/category/handler.go
package category

import (
	"miniblocket_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for category handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new category handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for category and location lookups.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.getAllCategories)
	router.GET("/categories/:slug", h.getCategory)
	router.GET("/locations", h.getLocations)
}

func (h *Handler) getAllCategories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	categoryResponses := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		categoryResponses[i] = ToCategoryResponse(&cat)
	}
	common.RespondOK(c, "Categories retrieved successfully.", categoryResponses)
}

func (h *Handler) getCategory(c *gin.Context) {
	catModel, err := h.service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Category retrieved successfully.", ToCategoryResponse(catModel))
}

func (h *Handler) getLocations(c *gin.Context) {
	common.RespondOK(c, "Locations retrieved successfully.", Locations)
}
