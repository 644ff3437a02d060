package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback_backend/internal/config"
	"feedback_backend/internal/email"
	"feedback_backend/internal/handlers"
	"feedback_backend/internal/logger"
	"feedback_backend/internal/middleware"
	"feedback_backend/internal/repositories"
	"feedback_backend/internal/routes"
	"feedback_backend/internal/services"
	"feedback_backend/internal/session"
	"feedback_backend/internal/storage"
	"feedback_backend/internal/validator"
	"feedback_backend/internal/workers"
	"feedback_backend/pkg/apperrors"
	"feedback_backend/ws"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Application is the wired process: router, store and background loops.
type Application struct {
	Router *gin.Engine

	store         storage.Storage
	wsManager     *ws.WebSocketManager
	sessionWorker *workers.SessionWorker
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.SetDebug(cfg.Server.Env == "development")
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	application, err := New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", address))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server startup error", "error", err)
		}
		stop()
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		cancel()
	}

	if err := application.Close(); err != nil {
		logger.Error("Failed to close store", "error", err)
	}
	logger.Info("Server stopped")
}

// New builds the store, services, handlers and router from cfg. Background
// loops are started separately by Start.
func New(cfg *config.Config) (*Application, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Store.Type,
		BasePath:  cfg.Store.BasePath,
		BaseURL:   cfg.Store.BaseURL,
		APIKey:    cfg.Store.APIKey,
		Bucket:    cfg.Store.Bucket,
		Region:    cfg.Store.Region,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		Endpoint:  cfg.Store.Endpoint,
		Driver:    cfg.Store.DatabaseDriver,
		DSN:       cfg.Store.DatabaseDSN,
		Timeout:   cfg.Store.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Store.Type)

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)

	// 1. Services
	serviceContainer, wsManager := initializeServices(cfg, storageInstance, sessions)

	// 2. Handlers
	appHandlers := initializeHandlers(cfg, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.Server.CORSOrigins)

	// 3. Router
	ginRouter := initializeGinRouter(cfg, serviceContainer.AuthService)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, cfg.Server.StaticDir)

	return &Application{
		Router:        ginRouter,
		store:         storageInstance,
		wsManager:     wsManager,
		sessionWorker: workers.NewSessionWorker(sessions, cfg.Session.SweepEvery),
	}, nil
}

// Start launches the live summary publisher and the session sweeper. Both
// stop when ctx is cancelled.
func (a *Application) Start(ctx context.Context) {
	go a.wsManager.Run(ctx)
	a.sessionWorker.Start(ctx)
}

// Close releases the store when it holds a connection.
func (a *Application) Close() error {
	if closer, ok := a.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, sessions *session.Manager) (*services.ServiceContainer, *ws.WebSocketManager) {
	emailService, err := email.NewProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("Email disabled, invalid SMTP settings", "error", err)
		emailService = email.NoopProvider{}
	} else if !cfg.Email.Enabled() {
		logger.Info("Email disabled, SMTP is not configured")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(storageInstance, cfg.Store.UsersBin)
	feedbackRepo := repositories.NewFeedbackRepository(storageInstance, cfg.Store.FeedbackBin)

	// Services
	authService := services.NewAuthService(userRepo, sessions, emailService)
	feedbackService := services.NewFeedbackService(feedbackRepo)
	analyticsService := services.NewAnalyticsService(feedbackRepo, services.AnalyticsSettings{
		WindowDays:     cfg.Analytics.WindowDays,
		TimeSeriesDays: cfg.Analytics.TimeSeriesDays,
		Location:       time.Local,
	})

	wsManager := ws.NewWebSocketManager(analyticsService, cfg.Analytics.PushInterval)
	healthService := services.NewHealthService(storageInstance, userRepo, feedbackRepo, sessions, wsManager)

	return &services.ServiceContainer{
		AuthService:      authService,
		FeedbackService:  feedbackService,
		AnalyticsService: analyticsService,
		HealthService:    healthService,
		EmailService:     emailService,
	}, wsManager
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	cookie := handlers.CookieSettings{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, services.AuthService, cookie),
		FeedbackHandler:  handlers.NewFeedbackHandler(baseHandler, services.FeedbackService),
		AnalyticsHandler: handlers.NewAnalyticsHandler(baseHandler, services.AnalyticsService),
		HealthHandler:    handlers.NewHealthHandler(services.HealthService),
	}
}

func initializeGinRouter(cfg *config.Config, authService services.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.SessionMiddleware(authService, cfg.Session.CookieName))
	return router
}
