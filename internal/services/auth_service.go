package services

import (
	"context"
	"errors"

	"feedback_backend/internal/auth"
	"feedback_backend/internal/email"
	"feedback_backend/internal/logger"
	"feedback_backend/internal/models"
	"feedback_backend/internal/repositories"
	"feedback_backend/internal/services/dto"
	"feedback_backend/internal/session"
	"feedback_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string)
	// CurrentUser resolves a session token. It returns ErrNotLoggedIn for
	// missing, invalid or expired tokens.
	CurrentUser(ctx context.Context, token string) (*dto.CurrentUser, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	sessions      *session.Manager
	emailProvider email.Provider
	// sendAsync runs fire-and-forget work such as the welcome email.
	sendAsync func(func())
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessions *session.Manager,
	emailProvider email.Provider,
) AuthService {
	if emailProvider == nil {
		emailProvider = email.NoopProvider{}
	}
	return &AuthServiceImpl{
		userRepo:      userRepo,
		sessions:      sessions,
		emailProvider: emailProvider,
		sendAsync:     func(f func()) { go f() },
	}
}

// Register stores a new user with a bcrypt-hashed password.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, storeError(err)
	}

	logger.CtxInfo(ctx, "User registered", "username", user.Username)

	s.sendAsync(func() {
		if err := s.emailProvider.SendWelcome(user.Email, user.Name, user.Username); err != nil {
			logger.Warn("Failed to send welcome email", "username", user.Username, "error", err)
		}
	})

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login checks the credentials and opens a session.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		logger.CtxWarn(ctx, "Login failed", "username", req.Username)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, _, err := s.sessions.Create(user.Username, user.Name)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "username", user.Username)
	return &dto.LoginResponse{
		Message: "Login successful",
		Name:    user.Name,
		Token:   token,
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	s.sessions.Destroy(token)
	logger.CtxDebug(ctx, "Session destroyed")
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, token string) (*dto.CurrentUser, error) {
	if token == "" {
		return nil, apperrors.ErrNotLoggedIn
	}
	sess, err := s.sessions.Resolve(token)
	if err != nil {
		logger.CtxDebug(ctx, "Session rejected", "reason", err.Error())
		return nil, apperrors.ErrNotLoggedIn
	}
	return &dto.CurrentUser{Username: sess.Username, Name: sess.Name}, nil
}
