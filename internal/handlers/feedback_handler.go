package handlers

import (
	"net/http"

	"feedback_backend/internal/logger"
	"feedback_backend/internal/middleware"
	"feedback_backend/internal/models"
	"feedback_backend/internal/services"
	"feedback_backend/internal/services/dto"
	"feedback_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	*BaseHandler
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(base *BaseHandler, feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     base,
		feedbackService: feedbackService,
	}
}

func (h *FeedbackHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/submit-feedback", middleware.RequireSession(), h.Submit)
	r.GET("/api/feedback", middleware.RequireSession(), h.ListMine)
}

// Submit godoc
// @Summary Submit feedback
// @Description Stores the posted document. category and q1-rating..q4-rating are validated, other fields are kept as sent.
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} dto.SubmitFeedbackResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse "Not logged in"
// @Failure 500 {object} apperrors.ErrorResponse "Write failed"
// @Failure 503 {object} apperrors.ErrorResponse "Store unavailable"
// @Security SessionCookie
// @Router /submit-feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
		return
	}

	var fb models.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind feedback body", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}
	req := dto.NewSubmitFeedbackRequest(fb)
	if !h.Validate(c, &req) {
		return
	}

	saved, err := h.feedbackService.Submit(c.Request.Context(), *user, fb)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitFeedbackResponse{
		Message:  "Feedback submitted successfully",
		Feedback: *saved,
	})
}

// ListMine godoc
// @Summary Feedback submitted by the logged-in user
// @Tags feedback
// @Produce json
// @Success 200 {array} object
// @Failure 401 {object} apperrors.ErrorResponse "Not logged in"
// @Security SessionCookie
// @Router /api/feedback [get]
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
		return
	}

	records, err := h.feedbackService.ListMine(c.Request.Context(), *user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
