package contextkeys

// contextKey avoids collisions with keys set by other packages.
type contextKey string

// Keys stored on the gin context by the session middleware.
const (
	CurrentUserKey  = contextKey("current_user")
	SessionTokenKey = contextKey("session_token")
)
