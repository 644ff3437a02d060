package ws

import (
	"sync"
	"time"

	"feedback_backend/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Client is one live analytics subscription.
type Client struct {
	ID       string
	Username string
	Conn     *websocket.Conn
	Send     chan []byte

	Manager *WebSocketManager
	once    sync.Once
}

func NewClient(manager *WebSocketManager, conn *websocket.Conn, username string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		Manager:  manager,
	}
}

// Cancel ends the subscription. Only the first call has an effect.
func (c *Client) Cancel() {
	c.once.Do(func() {
		c.Manager.Unsubscribe(c)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// readPump discards client messages and keeps the read deadline fresh. It
// returns when the peer goes away.
func (c *Client) readPump() {
	defer c.Cancel()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Cancel()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Warn("WebSocket write error", "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
