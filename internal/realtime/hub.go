package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"agriai-be/internal/logger"

	"go.uber.org/zap"
)

// AdminRoom receives every order lifecycle event.
const AdminRoom = "admin_orders"

// UserRoom returns the room key carrying one user's order events.
func UserRoom(userID uint) string {
	return fmt.Sprintf("user_orders:%d", userID)
}

// Message is the wire envelope for every server->client event.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hub owns all room membership. A room is a set of clients; membership lives
// only as long as the connection. Delivery is at-most-once: events sent to an
// empty room, or to a client whose buffer is full, are dropped.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Join adds the client to a room. Joining twice is a no-op.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Remove drops the client from every room it belongs to and closes its send
// channel. Called exactly once, when the connection goes away.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		if _, ok := members[c]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(c.send)
}

// Broadcast delivers an event to every current member of the room.
func (h *Hub) Broadcast(room, event string, data any) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		logger.L().Error("failed to encode realtime event",
			zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer, drop the event rather than block the caller.
		}
	}
}

func (h *Hub) roomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
