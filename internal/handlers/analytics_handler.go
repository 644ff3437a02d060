package handlers

import (
	"net/http"

	"feedback_backend/internal/logger"
	"feedback_backend/internal/middleware"
	"feedback_backend/internal/services"
	"feedback_backend/internal/services/dto"
	"feedback_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/analytics", middleware.RequireSession(), h.GetSummary)
}

// GetSummary godoc
// @Summary Feedback summary
// @Description Per-category counts, average ratings and histograms plus a daily average series. Defaults to the configured trailing window.
// @Tags analytics
// @Produce json
// @Param window_days query int false "Trailing window in days"
// @Param all query bool false "Summarize every record"
// @Success 200 {object} algorithms.Summary
// @Failure 400 {object} apperrors.ErrorResponse "Invalid window"
// @Failure 401 {object} apperrors.ErrorResponse "Not logged in"
// @Security SessionCookie
// @Router /api/analytics [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.CtxWarn(ctx, "Invalid analytics query", "error", err)
		apperrors.HandleError(c, apperrors.ErrInvalidWindow)
		return
	}
	if err := h.validator.Validate(&query); err != nil {
		logger.CtxWarn(ctx, "Invalid analytics query", "error", err)
		apperrors.HandleError(c, apperrors.ErrInvalidWindow)
		return
	}

	window := query.WindowDays
	if query.All {
		all := 0
		window = &all
	}

	c.JSON(http.StatusOK, h.analyticsService.Summary(ctx, window))
}
