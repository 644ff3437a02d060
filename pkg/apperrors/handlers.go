package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope of every error body.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler renders errors as JSON through gin.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}
	if appErr.HTTPCode >= 500 && !h.Debug {
		appErr = appErr.WithDetails(nil)
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("server error", "code", appErr.Code, "cause", appErr.Unwrap())
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleError renders err using the process-wide debug setting.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugMode}
	handler.HandleGinError(c, err)
}

var debugMode bool

// SetDebug toggles detail exposure on 5xx responses; call once at startup.
func SetDebug(debug bool) {
	debugMode = debug
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
