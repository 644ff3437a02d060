package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"feedback_backend/internal/handlers"
	"feedback_backend/internal/logger"
	"feedback_backend/internal/middleware"
	"feedback_backend/ws"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pages served from the static directory.
const (
	landingPage   = "intro.html"
	loginPage     = "/index.html"
	feedbackPage  = "feedback.html"
	analyticsPage = "analytics.html"
)

// RegisterRoutes registers every HTTP and WebSocket route. staticDir may be
// empty, in which case no pages are served.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	staticDir string,
) {
	appHandlers.AuthHandler.RegisterRoutes(ginRouter)
	appHandlers.FeedbackHandler.RegisterRoutes(ginRouter)
	appHandlers.AnalyticsHandler.RegisterRoutes(ginRouter)
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)

	ginRouter.GET("/ws/analytics", middleware.RequireSession(), wsHandler.ServeWS)
	logger.Info("WebSocket route /ws/analytics registered")

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if staticDir != "" {
		registerPages(ginRouter, staticDir)
		logger.Info("Static pages registered", "dir", staticDir)
	}
}

// registerPages serves the static directory as-is. The feedback and
// analytics pages send visitors without a session to the login page.
func registerPages(r *gin.Engine, dir string) {
	page := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			serveFile(c, filepath.Join(dir, name))
		}
	}

	r.GET("/", page(landingPage))
	r.GET("/feedback", middleware.RequireSessionOrRedirect(loginPage), page(feedbackPage))
	r.GET("/analytics", middleware.RequireSessionOrRedirect(loginPage), page(analyticsPage))

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		serveFile(c, filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path))))
	})
}

// serveFile writes a regular file, or 404. Unlike http.ServeFile it does not
// redirect index.html, which is the login page here.
func serveFile(c *gin.Context, name string) {
	f, err := os.Open(name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
