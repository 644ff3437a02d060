package handlers

import (
	"net/http"
	"time"

	"feedback_backend/internal/middleware"
	"feedback_backend/internal/services"
	"feedback_backend/internal/services/dto"
	"feedback_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CookieSettings describe the session cookie set on login.
type CookieSettings struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cookie      CookieSettings
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cookie:      cookie,
	}
}

// RegisterRoutes registers the account endpoints. /api/name needs a session.
func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/name", middleware.RequireSession(), h.GetName)
	}
	r.GET("/logout", h.LogoutRedirect)
	r.POST("/logout", h.Logout)
}

// Register godoc
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "New account"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse "Missing or invalid fields"
// @Failure 409 {object} apperrors.ErrorResponse "Username already exists"
// @Failure 503 {object} apperrors.ErrorResponse "Store unavailable"
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Opens a session. The token is set as a cookie and also returned for bearer use.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse "Invalid username or password"
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.endSession(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// LogoutRedirect ends the session and sends the browser to the landing page.
func (h *AuthHandler) LogoutRedirect(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// GetName godoc
// @Summary Display name of the logged-in user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.NameResponse
// @Failure 401 {object} apperrors.ErrorResponse "Not logged in"
// @Security SessionCookie
// @Router /api/name [get]
func (h *AuthHandler) GetName(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
		return
	}
	c.JSON(http.StatusOK, dto.NameResponse{Name: user.Name})
}

func (h *AuthHandler) endSession(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), middleware.GetSessionToken(c))
	h.setSessionCookie(c, "", -1)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
