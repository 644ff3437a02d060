package services

import (
	"context"
	"time"

	"feedback_backend/internal/repositories"
	"feedback_backend/internal/services/dto"
	"feedback_backend/internal/storage"
)

// Counter is anything that can report a current size, such as the session
// manager or the live summary publisher.
type Counter interface {
	Count() int
}

type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type HealthServiceImpl struct {
	store        storage.Storage
	userRepo     repositories.UserRepository
	feedbackRepo repositories.FeedbackRepository
	sessions     Counter
	subscribers  Counter
	startedAt    time.Time
}

func NewHealthService(
	store storage.Storage,
	userRepo repositories.UserRepository,
	feedbackRepo repositories.FeedbackRepository,
	sessions Counter,
	subscribers Counter,
) HealthService {
	return &HealthServiceImpl{
		store:        store,
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		sessions:     sessions,
		subscribers:  subscribers,
		startedAt:    time.Now(),
	}
}

// Check pings the store. Collection sizes come from the repository caches
// and may lag behind other instances.
func (s *HealthServiceImpl) Check(ctx context.Context) dto.HealthResponse {
	resp := dto.HealthResponse{
		Status:        "ok",
		Store:         s.store.Name(),
		Users:         s.userRepo.CachedCount(),
		Feedback:      s.feedbackRepo.CachedCount(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
	if s.sessions != nil {
		resp.Sessions = s.sessions.Count()
	}
	if s.subscribers != nil {
		resp.Subscribers = s.subscribers.Count()
	}

	if err := s.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.StoreError = err.Error()
	}
	return resp
}
