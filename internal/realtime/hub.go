// Package realtime fans out state changes to connected websocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MrSnakeDoc/sip/internal/logger"
)

const (
	// DefaultPingInterval keeps idle connections alive through proxies.
	DefaultPingInterval = 25 * time.Second
	writeWait           = 10 * time.Second
	maxMessageSize      = 4 << 10
)

// Client is one websocket connection. Writes are serialized.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes payload as a JSON text message.
func (c *Client) Send(payload any) error {
	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, msg)
}

func (c *Client) write(kind int, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, msg)
}

// Hub tracks connected clients.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*Client]struct{}
	logger       logger.Logger
	PingInterval time.Duration
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		logger:       log,
		PingInterval: DefaultPingInterval,
	}
}

// Register wraps conn and adds it to the hub.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	c := &Client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("websocket client registered", logger.Int("clients", n))
	return c
}

// Unregister removes c and closes its connection. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
		h.logger.Debug("websocket client unregistered", logger.Int("clients", n))
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends payload to every client. Clients that fail to receive it
// are dropped.
func (h *Hub) Broadcast(payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast", logger.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("dropping websocket client", logger.Error(err))
			h.Unregister(c)
		}
	}
}

// Serve registers conn and runs its read loop until the connection fails.
// open, when set, runs once after registration. Every text message is
// handed to handle. A ticker pings the client meanwhile.
func (h *Hub) Serve(conn *websocket.Conn, open func(c *Client), handle func(c *Client, data []byte)) {
	c := h.Register(conn)
	defer h.Unregister(c)

	if open != nil {
		open(c)
	}

	conn.SetReadLimit(maxMessageSize)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(c, done)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", logger.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		handle(c, data)
	}
}

func (h *Hub) keepAlive(c *Client, done <-chan struct{}) {
	t := time.NewTicker(h.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		}
	}
}
