package handlers

import (
	"net/http"

	"feedback_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService services.HealthService
}

func NewHealthHandler(healthService services.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Check)
}

// Check godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Store unreachable"
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	resp := h.healthService.Check(c.Request.Context())
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
