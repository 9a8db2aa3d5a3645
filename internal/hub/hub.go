package hub

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub maintains the set of active clients and broadcasts updates to them
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan Update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   logrus.FieldLogger

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// New creates a hub. allowedOrigins of nil or containing "*" accepts any origin.
func New(allowedOrigins []string, logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "hub"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || contains(allowed, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || contains(allowed, origin)
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.clientsMu.Unlock()

			h.metricsMu.Lock()
			h.totalConnections++
			h.metricsMu.Unlock()

			c.logger.WithField("total", count).Info("client connected")

		case c := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				c.logger.WithField("total", len(h.clients)).Info("client disconnected")
			}
			h.clientsMu.Unlock()

		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an update for every matching client, dropping it when the queue is full
func (h *Hub) Broadcast(u Update) {
	select {
	case h.broadcast <- u:
	default:
		h.logger.WithField("type", u.Type).Warn("broadcast buffer full, dropping update")
	}
}

func (h *Hub) deliver(u Update) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := ServerMessage{Type: u.Type, Payload: u.Payload, Timestamp: time.Now()}

	sent := 0
	for _, c := range clients {
		if !c.Matches(u) {
			continue
		}
		if c.trySend(message) {
			sent++
			continue
		}
		// Client buffer full - they're too slow, disconnect them
		c.logger.Warn("client buffer full, disconnecting")
		go h.Unregister(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
}

// ServeWS upgrades an HTTP request and attaches the connection to the hub.
// The pumps run until ctx is cancelled or the peer disconnects.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := newClient(uuid.New().String(), conn, h)
	h.Register(c)

	go c.writePump(ctx)
	go c.readPump(ctx)
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns hub counters
func (h *Hub) Metrics() map[string]interface{} {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections,
		"total_messages":    h.totalMessages,
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("active_clients", len(h.clients)).Info("shutting down hub")
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
