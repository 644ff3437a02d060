package services

import (
	"feedback_backend/internal/email"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService      AuthService
	FeedbackService  FeedbackService
	AnalyticsService AnalyticsService
	HealthService    HealthService
	EmailService     email.Provider
}
