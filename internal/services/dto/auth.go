package dto

import "feedback_backend/internal/models"

// RegisterRequest - registration form
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=64,no-spaces"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest - login form
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login. Browsers use the cookie,
// API clients may send Token as a bearer credential instead.
type LoginResponse struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

type NameResponse struct {
	Name string `json:"name"`
}

// CurrentUser is the identity attached to an authenticated request.
type CurrentUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{Name: u.Name, Email: u.Email, Username: u.Username}
}

type MessageResponse struct {
	Message string `json:"message"`
}
