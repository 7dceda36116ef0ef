package notification

import (
	"net/http"
	"sync"
	"time"

	"campuseats-be/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client wraps a connection with a write lock. Dispatchers run
// concurrently and gorilla permits only one writer per connection at a
// time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(payload)
}

// Hub tracks websocket connections per user. A user may hold several
// connections at once (multiple tabs or devices); a send goes to all of
// them.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID][]*client
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uuid.UUID][]*client)}
}

// Serve upgrades the request and keeps the connection registered until
// the peer goes away. It blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn}
	h.add(userID, cl)
	defer h.remove(userID, cl)
	defer conn.Close()

	// Drain incoming frames so pings and close frames are processed.
	// Clients never send application data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (h *Hub) add(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], cl)
}

func (h *Hub) remove(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.conns[userID]
	for i, c := range clients {
		if c == cl {
			h.conns[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// SendToUser writes the payload as JSON to every connection the user
// holds. A user with no connection is not an error.
func (h *Hub) SendToUser(userID uuid.UUID, payload any) {
	h.mu.RLock()
	clients := make([]*client, len(h.conns[userID]))
	copy(clients, h.conns[userID])
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			logger.L().Debug("websocket write failed", zap.Error(err))
		}
	}
}

// Broadcast writes the payload to every connected user.
func (h *Hub) Broadcast(payload any) {
	h.mu.RLock()
	var clients []*client
	for _, cs := range h.conns {
		clients = append(clients, cs...)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			logger.L().Debug("websocket write failed", zap.Error(err))
		}
	}
}
