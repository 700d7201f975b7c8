package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tessera-labs/design-notify/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the router; allow all origins here
	},
}

// Hub manages WebSocket connections for the socket delivery channel.
// Each client subscribes to a topic (the socket endpoint of a
// subscription); published notifications reach only clients on that topic.
type Hub struct {
	clients    map[*client]struct{}
	mu         sync.RWMutex
	publish    chan envelope
	register   chan *client
	unregister chan *client
	logger     *slog.Logger
}

type envelope struct {
	topic string
	data  []byte
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		publish:    make(chan envelope, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run starts the hub's event loop. Should be called as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			metrics.SocketClients.Inc()
			h.logger.Debug("socket client connected", "topic", c.topic, "total_clients", h.ClientCount())

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.SocketClients.Dec()
			}
			h.mu.Unlock()
			h.logger.Debug("socket client disconnected", "topic", c.topic, "total_clients", h.ClientCount())

		case env := <-h.publish:
			h.deliver(env)
		}
	}
}

func (h *Hub) deliver(env envelope) {
	var dropped []*client

	h.mu.RLock()
	for c := range h.clients {
		if c.topic != env.topic {
			continue
		}
		select {
		case c.send <- env.data:
		default:
			// Client buffer full — drop it
			dropped = append(dropped, c)
		}
	}
	h.mu.RUnlock()

	if len(dropped) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range dropped {
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
			metrics.SocketClients.Dec()
		}
	}
	h.mu.Unlock()
}

// Publish sends a payload to every client subscribed to the topic.
func (h *Hub) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	select {
	case h.publish <- envelope{topic: topic, data: data}:
		return nil
	default:
		h.logger.Warn("socket publish channel full, dropping message", "topic", topic)
		return nil
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket and registers the
// client under the topic named in the query string.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		http.Error(w, "topic query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:   h,
		conn:  conn,
		topic: topic,
		send:  make(chan []byte, 256),
	}

	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump reads messages from the WebSocket connection (handles pings/disconnects).
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
