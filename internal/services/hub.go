package services

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/damione1/live-poll/internal/models"
	"github.com/damione1/live-poll/internal/security"
)

// Hub tracks live connections by id and implements Broadcaster on top of
// each client's send buffer.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	metrics *Metrics
	limiter *security.RateLimiter
	log     *slog.Logger
}

func NewHub(metrics *Metrics, limiter *security.RateLimiter, log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		metrics: metrics,
		limiter: limiter,
		log:     log,
	}
}

// Register adds a client so it receives broadcasts.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.metrics.IncrementConnections()
	h.log.Info("WebSocket registered", "conn", c.id, "connections", total)
}

// Unregister removes a client. Only the exact client registered under its id
// is removed, so a late unregister can't evict a newer connection.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.id]
	if ok && current == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()

	if ok && current == c {
		h.limiter.Remove(c.id)
		h.metrics.DecrementConnections()
		h.log.Info("WebSocket unregistered", "conn", c.id)
	}
}

// Broadcast marshals msg once and queues it on every connection.
func (h *Hub) Broadcast(msg *models.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Error marshaling message", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	h.log.Debug("Broadcasting", "type", msg.Type, "connections", len(clients))
	for _, c := range clients {
		c.Send(data)
	}
}

// SendTo queues msg on a single connection. Unknown ids are ignored.
func (h *Hub) SendTo(connID string, msg *models.OutboundMessage) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		h.log.Debug("No connection for targeted message", "conn", connID, "type", msg.Type)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Error marshaling message", "type", msg.Type, "error", err)
		return
	}
	c.Send(data)
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetMetrics returns a point-in-time metrics snapshot.
func (h *Hub) GetMetrics() MetricsSnapshot {
	return h.metrics.Snapshot()
}

// Close shuts down every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			c.Close()
		}(c)
	}
	wg.Wait()
}
