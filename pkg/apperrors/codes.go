package apperrors

// ErrorCode is the machine-readable code rendered in every error response.
type ErrorCode string

// System errors
const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	CodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
)

// Request and business errors
const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUsernameTaken    ErrorCode = "USERNAME_TAKEN"
)

// Authentication
const (
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)
