package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) Notification {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var n Notification
	require.NoError(t, conn.ReadJSON(&n))
	return n
}

func TestHub_SendToUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	// Serve registers the connection from its own goroutine; wait for it.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.conns[userID]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	orderID := uuid.New()
	hub.SendToUser(userID, Notification{Tag: TagAccepted, OrderID: orderID, Message: "hi"})

	got := readNotification(t, conn)
	assert.Equal(t, TagAccepted, got.Tag)
	assert.Equal(t, orderID, got.OrderID)
}

func TestHub_SendToUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.SendToUser(uuid.New(), Notification{Tag: TagDelivered})
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	alice := dialHub(t, hub, uuid.New())
	bob := dialHub(t, hub, uuid.New())

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.conns) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(Notification{Tag: TagNewOrder, Message: "new order"})

	for _, conn := range []*websocket.Conn{alice, bob} {
		got := readNotification(t, conn)
		assert.Equal(t, TagNewOrder, got.Tag)
	}
}

func TestHub_ConcurrentSendsToOneConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.conns[userID]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Dispatchers fire one goroutine per event, so sends to the same
	// connection overlap. Every frame must still arrive intact.
	const senders = 32
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.SendToUser(userID, Notification{Tag: TagAccepted, Message: "on its way"})
		}()
	}

	for i := 0; i < senders; i++ {
		got := readNotification(t, conn)
		assert.Equal(t, TagAccepted, got.Tag)
	}
	wg.Wait()
}

func TestHub_RemovesConnectionOnClose(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	conn := dialHub(t, hub, userID)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.conns[userID]) == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.conns) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
