package apperrors

import (
	"net/http"
)

// --- Auth ---

// ErrInvalidCredentials never says which of username or password was wrong.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

var ErrNotLoggedIn = New(
	CodeUnauthorized,
	"auth",
	"Not logged in",
	http.StatusUnauthorized,
)

var ErrUsernameTaken = New(
	CodeUsernameTaken,
	"auth",
	"Username already exists",
	http.StatusConflict,
)

// --- Store ---

var ErrStoreUnavailable = New(
	CodeStoreUnavailable,
	"store",
	"Storage is temporarily unavailable",
	http.StatusServiceUnavailable,
)

var ErrStoreWriteFailed = New(
	CodeStoreWriteFailed,
	"store",
	"Failed to save data",
	http.StatusInternalServerError,
)

// --- Analytics ---

var ErrInvalidWindow = New(
	CodeValidationFailed,
	"analytics",
	"window_days must be a positive integer",
	http.StatusBadRequest,
)
