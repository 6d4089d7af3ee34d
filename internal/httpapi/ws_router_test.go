package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agriai-be/internal/order"
	"agriai-be/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dials /ws through the fully assembled router so the whole middleware
// chain sits in front of the upgrade, exactly as in the wired server.
func dialWS(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestRouter_WebSocketUpgrade(t *testing.T) {
	svc := new(MockService)
	hub := realtime.NewHub()
	h := &OrdersHandler{Service: svc, Dev: true}
	srv := httptest.NewServer(NewRouter(h, hub, testSecret))
	defer srv.Close()

	conn, resp, err := dialWS(t, srv, tokenFor(t, 41, "user"))
	require.NoError(t, err, "upgrade must succeed through the middleware chain")
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.WriteJSON(map[string]string{"event": "join_user_orders"}))

	// The join is processed asynchronously, so keep emitting until the
	// event lands.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.OrderStatusChanged(&order.Order{ID: 42, UserID: 41, Status: order.StatusShipped})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), realtime.EventUserOrderUpdated)
	assert.Contains(t, string(raw), `"orderId":42`)
}

func TestRouter_WebSocketRequiresAuth(t *testing.T) {
	svc := new(MockService)
	srv := httptest.NewServer(NewRouter(&OrdersHandler{Service: svc, Dev: true}, realtime.NewHub(), testSecret))
	defer srv.Close()

	conn, resp, err := dialWS(t, srv, "")
	require.Error(t, err)
	require.Nil(t, conn)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
