package notifications

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per admin user
	maxConnsPerUser = 8
	// Max total connections
	maxTotalConns = 500
)

// AdminHub tracks every connected admin websocket session and fans admin
// events out to all of them.
type AdminHub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	closed     bool
}

// NewAdminHub creates a new hub for admin console sessions.
func NewAdminHub() *AdminHub {
	return &AdminHub{
		conns: make(map[uint]map[*Client]struct{}),
	}
}

// Register a connection for the given admin user. Returns the Client or an
// error when connection limits are exceeded.
func (h *AdminHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.New("hub is shut down")
	}
	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := newClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	return client, nil
}

// Unregister drops a client from the hub.
func (h *AdminHub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
}

// Broadcast sends the message to every connected admin session.
func (h *AdminHub) Broadcast(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data := []byte(message)
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// ConnectionCount reports the number of live sessions.
func (h *AdminHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// Shutdown closes every send channel and refuses further registrations.
func (h *AdminHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, clients := range h.conns {
		for c := range clients {
			close(c.Send)
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0
}

// StartWiring connects the Redis subscriber to the hub so events published on
// any instance reach every connected admin session.
func (h *AdminHub) StartWiring(ctx context.Context, notifier *Notifier) error {
	return notifier.StartAdminSubscriber(ctx, func(payload string) {
		h.Broadcast(payload)
	})
}
