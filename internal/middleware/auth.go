package middleware

import (
	"net/http"
	"strings"

	"feedback_backend/internal/logger"
	"feedback_backend/internal/services"
	"feedback_backend/internal/services/dto"
	"feedback_backend/pkg/apperrors"
	"feedback_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// SessionToken returns the session token from the cookie, falling back to a
// bearer Authorization header.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// SessionMiddleware resolves the session, if any, and stores the user on the
// context. It never rejects a request.
func SessionMiddleware(authService services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		c.Set(string(contextkeys.SessionTokenKey), token)

		user, err := authService.CurrentUser(c.Request.Context(), token)
		if err == nil {
			c.Set(string(contextkeys.CurrentUserKey), user)
			c.Request = c.Request.WithContext(logger.WithUsername(c.Request.Context(), user.Username))
		}
		c.Next()
	}
}

// RequireSession rejects requests without a live session with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUser(c); !ok {
			logger.CtxWarn(c.Request.Context(), "Unauthorized access", "path", c.Request.URL.Path, "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
			return
		}
		c.Next()
	}
}

// RequireSessionOrRedirect sends browsers without a session to the login page.
func RequireSessionOrRedirect(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUser(c); !ok {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetCurrentUser returns the user attached by SessionMiddleware.
func GetCurrentUser(c *gin.Context) (*dto.CurrentUser, bool) {
	val, exists := c.Get(string(contextkeys.CurrentUserKey))
	if !exists {
		return nil, false
	}
	user, ok := val.(*dto.CurrentUser)
	return user, ok && user != nil
}

// GetSessionToken returns the raw token seen by SessionMiddleware.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(string(contextkeys.SessionTokenKey))
}
