package services

import (
	"context"
	"time"

	"feedback_backend/internal/algorithms"
	"feedback_backend/internal/logger"
	"feedback_backend/internal/models"
	"feedback_backend/internal/repositories"
)

// AnalyticsSettings are the defaults applied to every summary.
type AnalyticsSettings struct {
	// WindowDays is the default window; 0 disables it.
	WindowDays     int
	TimeSeriesDays int
	Location       *time.Location
}

type AnalyticsService interface {
	// Summary computes the summary over the given window. A nil window uses
	// the configured default and a zero window means all records.
	Summary(ctx context.Context, windowDays *int) algorithms.Summary
	// Current is the summary with the configured defaults, as pushed to
	// live subscribers.
	Current(ctx context.Context) algorithms.Summary
}

type AnalyticsServiceImpl struct {
	feedbackRepo repositories.FeedbackRepository
	settings     AnalyticsSettings
	now          func() time.Time
}

func NewAnalyticsService(feedbackRepo repositories.FeedbackRepository, settings AnalyticsSettings) AnalyticsService {
	if settings.TimeSeriesDays <= 0 {
		settings.TimeSeriesDays = algorithms.DefaultTimeSeriesDays
	}
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &AnalyticsServiceImpl{feedbackRepo: feedbackRepo, settings: settings, now: time.Now}
}

func (s *AnalyticsServiceImpl) Summary(ctx context.Context, windowDays *int) algorithms.Summary {
	window := windowDays
	if window == nil && s.settings.WindowDays > 0 {
		days := s.settings.WindowDays
		window = &days
	}
	if window != nil && *window <= 0 {
		window = nil
	}

	records, err := s.feedbackRepo.Load(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "Feedback store unreadable, summarizing no records", "error", err)
		records = []models.Feedback{}
	}

	return algorithms.Summarize(records, algorithms.SummaryOptions{
		WindowDays:     window,
		Now:            s.now(),
		TimeSeriesDays: s.settings.TimeSeriesDays,
		Location:       s.settings.Location,
	})
}

func (s *AnalyticsServiceImpl) Current(ctx context.Context) algorithms.Summary {
	return s.Summary(ctx, nil)
}
