package services

import (
	"context"
	"time"

	"feedback_backend/internal/logger"
	"feedback_backend/internal/models"
	"feedback_backend/internal/repositories"
	"feedback_backend/internal/services/dto"
)

type FeedbackService interface {
	// Submit stamps the record with the submitter and the current time and
	// appends it. The record is only reported as saved once the store
	// confirmed the write.
	Submit(ctx context.Context, user dto.CurrentUser, fb models.Feedback) (*models.Feedback, error)
	// ListMine returns the caller's records. Store read failures yield an
	// empty list.
	ListMine(ctx context.Context, user dto.CurrentUser) ([]models.Feedback, error)
}

type FeedbackServiceImpl struct {
	feedbackRepo repositories.FeedbackRepository
	now          func() time.Time
}

func NewFeedbackService(feedbackRepo repositories.FeedbackRepository) FeedbackService {
	return &FeedbackServiceImpl{feedbackRepo: feedbackRepo, now: time.Now}
}

func (s *FeedbackServiceImpl) Submit(ctx context.Context, user dto.CurrentUser, fb models.Feedback) (*models.Feedback, error) {
	fb.Username = user.Username
	fb.Name = user.Name
	fb.Timestamp = models.FormatTimestamp(s.now())

	if err := s.feedbackRepo.Append(ctx, fb); err != nil {
		logger.CtxWithError(ctx, "Failed to store feedback", err, "username", user.Username)
		return nil, storeError(err)
	}

	logger.CtxInfo(ctx, "Feedback submitted", "username", user.Username, "category", fb.Category)
	return &fb, nil
}

func (s *FeedbackServiceImpl) ListMine(ctx context.Context, user dto.CurrentUser) ([]models.Feedback, error) {
	records, err := s.feedbackRepo.FindBySubmitter(ctx, user.Username, user.Name)
	if err != nil {
		logger.CtxWarn(ctx, "Feedback store unreadable, returning no records", "error", err)
		return []models.Feedback{}, nil
	}
	return records, nil
}
