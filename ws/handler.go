package ws

import (
	"net/http"
	"strings"

	"feedback_backend/internal/logger"
	"feedback_backend/internal/middleware"
	"feedback_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Manager  *WebSocketManager
	upgrader websocket.Upgrader
}

// NewWebSocketHandler builds the upgrade handler. Cross-origin upgrades are
// accepted only for origins in the comma-separated allow list; same-origin
// requests are always accepted.
func NewWebSocketHandler(manager *WebSocketManager, allowedOrigins string) *WebSocketHandler {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &WebSocketHandler{
		Manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || sameOrigin(origin, r.Host) {
					return true
				}
				for _, o := range origins {
					if o == "*" || o == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// ServeWS godoc
// @Summary Live analytics
// @Description Upgrades to a websocket that receives the analytics summary on connect and on every push interval
// @Tags analytics
// @Success 101
// @Failure 401 {object} apperrors.AppError
// @Security SessionCookie
// @Router /ws/analytics [get]
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade failed", "error", err)
		return
	}

	client := NewClient(h.Manager, conn, user.Username)
	if !h.Manager.Subscribe(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	logger.CtxInfo(c.Request.Context(), "Live analytics subscriber connected", "client_id", client.ID)

	go client.readPump()
	go client.writePump()
}

func sameOrigin(origin, host string) bool {
	origin = strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return strings.EqualFold(origin, host)
}
