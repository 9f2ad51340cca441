// File: internal/report/handler.go
package report

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

// RegisterRoutes sets up report routes. Submitting requires authentication;
// triage is admin-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.POST("/reports", authMW, h.submitReport)

	adminGroup := router.Group("/admin/reports")
	adminGroup.Use(authMW)
	adminGroup.Use(adminRoleMW)
	{
		adminGroup.GET("", h.listPendingReports)
		adminGroup.POST("/:id/dismiss", h.dismissReport)
		adminGroup.POST("/:id/resolve", h.resolveReport)
	}
}

func (h *Handler) submitReport(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User not authenticated."))
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Report submitted successfully.", ToReportResponse(report))
}

func (h *Handler) listPendingReports(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	reports, pagination, err := h.service.ListPending(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]ReportResponse, len(reports))
	for i := range reports {
		responses[i] = ToReportResponse(&reports[i])
	}
	common.RespondPaginated(c, "Pending reports retrieved successfully.", responses, pagination)
}

func (h *Handler) dismissReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid report ID format."))
		return
	}

	report, err := h.service.Dismiss(c.Request.Context(), reportID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Report dismissed.", ToReportResponse(report))
}

func (h *Handler) resolveReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid report ID format."))
		return
	}

	report, err := h.service.Resolve(c.Request.Context(), reportID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Report resolved.", ToReportResponse(report))
}
