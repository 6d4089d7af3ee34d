package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"agriai-be/internal/logger"
	"agriai-be/internal/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client is served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection. Room membership is re-established by
// the client after every (re)connect; nothing is replayed.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  uint
	isAdmin bool
}

type joinRequest struct {
	Event  string `json:"event"`
	UserID uint   `json:"userId"`
}

// ServeWS upgrades an authenticated request to a WebSocket connection and
// starts its read/write pumps.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.FromCtx(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		c := &Client{
			hub:     hub,
			conn:    conn,
			send:    make(chan []byte, sendBufferSize),
			userID:  userID,
			isAdmin: utils.IsAdmin(r.Context()),
		}

		go c.writePump()
		go c.readPump()
	}
}

// readPump handles the join messages; everything else inbound is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req joinRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		c.handleJoin(req)
	}
}

func (c *Client) handleJoin(req joinRequest) {
	switch req.Event {
	case eventJoinAdminRoom:
		if !c.isAdmin {
			logger.L().Warn("non-admin tried to join admin room",
				zap.Uint("user_id", c.userID))
			return
		}
		c.hub.Join(AdminRoom, c)

	case eventJoinUserOrders:
		// Non-admins are pinned to their own room regardless of the
		// userId in the message.
		target := c.userID
		if c.isAdmin && req.UserID != 0 {
			target = req.UserID
		}
		c.hub.Join(UserRoom(target), c)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
