package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agriai-be/internal/order"
	"agriai-be/internal/utils"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsServer wires ServeWS behind a fake identity, the way the auth middleware
// would in production.
func wsServer(hub *Hub, userID uint, role string) *httptest.Server {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.SetUserContext(r.Context(), userID, "test@example.com", role)
		ServeWS(hub)(w, r.WithContext(ctx))
	})
	return httptest.NewServer(handler)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readWireEvent(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func waitForRoom(t *testing.T, hub *Hub, room string, size int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.roomSize(room) == size
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_UserReceivesOwnOrderEvents(t *testing.T) {
	hub := NewHub()
	srv := wsServer(hub, 7, "user")
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_user_orders"}))
	waitForRoom(t, hub, UserRoom(7), 1)

	hub.OrderStatusChanged(&order.Order{ID: 42, UserID: 7, Status: order.StatusCancelled})

	msg := readWireEvent(t, conn)
	assert.Equal(t, EventUserOrderUpdated, msg.Event)
	data := msg.Data.(map[string]any)
	assert.Equal(t, float64(42), data["orderId"])
	assert.Equal(t, "cancelled", data["status"])
}

func TestServeWS_NonAdminCannotJoinAdminRoom(t *testing.T) {
	hub := NewHub()
	srv := wsServer(hub, 7, "user")
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_admin_room"}))
	// Join their own room afterwards so we can observe the first join was refused.
	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_user_orders"}))
	waitForRoom(t, hub, UserRoom(7), 1)

	assert.Equal(t, 0, hub.roomSize(AdminRoom))
}

func TestServeWS_NonAdminPinnedToOwnRoom(t *testing.T) {
	hub := NewHub()
	srv := wsServer(hub, 7, "user")
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	// Asking for someone else's room still lands in your own.
	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_user_orders", "userId": 8}))
	waitForRoom(t, hub, UserRoom(7), 1)
	assert.Equal(t, 0, hub.roomSize(UserRoom(8)))
}

func TestServeWS_AdminReceivesNewOrders(t *testing.T) {
	hub := NewHub()
	srv := wsServer(hub, 1, "admin")
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_admin_room"}))
	waitForRoom(t, hub, AdminRoom, 1)

	hub.OrderCreated(&order.Order{ID: 9, OrderNumber: "AGR-000001-001", UserID: 7, Status: order.StatusPending})

	msg := readWireEvent(t, conn)
	assert.Equal(t, EventNewOrder, msg.Event)
}

func TestServeWS_DisconnectLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	srv := wsServer(hub, 1, "admin")
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_admin_room"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"event": "join_user_orders", "userId": 5}))
	waitForRoom(t, hub, AdminRoom, 1)
	waitForRoom(t, hub, UserRoom(5), 1)

	conn.Close()

	waitForRoom(t, hub, AdminRoom, 0)
	waitForRoom(t, hub, UserRoom(5), 0)
}

func TestServeWS_RequiresIdentity(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(ServeWS(hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
