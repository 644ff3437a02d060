package dto

import "feedback_backend/internal/models"

// SubmitFeedbackRequest is the validated part of a submission. The rest of
// the posted document is stored as-is.
type SubmitFeedbackRequest struct {
	Category string             `json:"category" validate:"required,is-category"`
	Q1       models.RatingValue `json:"q1-rating" validate:"rating"`
	Q2       models.RatingValue `json:"q2-rating" validate:"rating"`
	Q3       models.RatingValue `json:"q3-rating" validate:"rating"`
	Q4       models.RatingValue `json:"q4-rating" validate:"rating"`
}

// NewSubmitFeedbackRequest extracts the validated fields from a posted record.
func NewSubmitFeedbackRequest(fb models.Feedback) SubmitFeedbackRequest {
	return SubmitFeedbackRequest{
		Category: string(fb.Category),
		Q1:       fb.Ratings[0],
		Q2:       fb.Ratings[1],
		Q3:       fb.Ratings[2],
		Q4:       fb.Ratings[3],
	}
}

type SubmitFeedbackResponse struct {
	Message  string          `json:"message"`
	Feedback models.Feedback `json:"feedback"`
}
