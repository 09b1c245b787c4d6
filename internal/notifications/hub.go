package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"toolnest/internal/middleware"
	"toolnest/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// MaxConnsPerUser caps concurrent sockets per user.
const MaxConnsPerUser = 5

var (
	ErrConnectionLimit = errors.New("user connection limit reached")
	ErrHubClosed       = errors.New("notification hub is shut down")
)

// Hub maps userID to that user's open websocket clients.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uint]map[*Client]struct{}
	closed bool
}

// NewHub creates a new Hub instance for managing notifications.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*Client]struct{})}
}

// Register adds a connection for userID.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= MaxConnsPerUser {
		return nil, ErrConnectionLimit
	}

	client := newClient(h, conn, userID)
	m[client] = struct{}{}
	observability.ActiveWebSockets.Inc()
	return client, nil
}

// UnregisterClient removes the client and closes its send queue. Safe to call twice.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	m, ok := h.conns[client.UserID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	close(client.Send)
	observability.ActiveWebSockets.Dec()
	if len(m) == 0 {
		delete(h.conns, client.UserID)
	}
}

// ConnectionCount reports how many sockets userID has open.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Broadcast sends message to all connections for userID and returns how many accepted it.
func (h *Hub) Broadcast(userID uint, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.conns[userID]
	if len(clients) == 0 {
		observability.NotificationsDelivered.WithLabelValues("no_clients").Inc()
		return 0
	}
	sent := 0
	for c := range clients {
		if c.TrySend(message) {
			sent++
		}
	}
	if sent > 0 {
		observability.NotificationsDelivered.WithLabelValues("sent").Add(float64(sent))
	}
	return sent
}

// userIDFromChannel parses notifications:user:<id>.
func userIDFromChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// StartWiring connects the Notifier to this hub: every message published to a
// user channel is forwarded to that user's connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		userID, ok := userIDFromChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid notification channel", slog.String("channel", channel))
			return
		}
		h.Broadcast(userID, []byte(payload))
	})
}

// Shutdown closes every client queue; write pumps then send a close frame and hang up.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for _, clients := range h.conns {
		for c := range clients {
			h.removeLocked(c)
		}
	}
	return nil
}
