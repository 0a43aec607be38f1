package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/damione1/live-poll/internal/config"
	apperrors "github.com/damione1/live-poll/internal/errors"
	"github.com/damione1/live-poll/internal/models"
)

// MessageHandler receives decoded traffic from a client's read pump.
type MessageHandler interface {
	HandleMessage(connID string, data []byte)
	HandleDisconnect(connID string)
}

// Client represents a single WebSocket connection with its own send goroutine
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	handler MessageHandler
	log     *slog.Logger

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
	done    chan struct{}
}

// NewClient creates a new client instance
func NewClient(id string, conn *websocket.Conn, hub *Hub, handler MessageHandler, log *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, config.ClientSendBufferSize),
		hub:     hub,
		handler: handler,
		log:     log.With("conn", id),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Start begins the client's write pump and runs the read pump until the
// connection ends. It blocks, so the HTTP handler owning the upgrade stays
// alive for the lifetime of the socket.
func (c *Client) Start() {
	go c.writePump()
	c.readPump()
}

// Done is closed once the read pump has exited and the disconnect has been
// reported.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// writePump handles outgoing messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()

			if err != nil {
				c.log.Warn("Write error", "error", err)
				c.hub.metrics.IncrementBroadcastErrors()
				return
			}
			c.hub.metrics.IncrementMessagesSent()

		case <-ticker.C:
			// Ping needs the read pump running to receive the pong
			pingCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				c.log.Warn("Ping error", "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump handles incoming messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.handler.HandleDisconnect(c.id)
		c.Close()
		close(c.done)
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)

	for {
		_, message, err := c.conn.Read(c.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				c.log.Warn("Read error", "error", err)
				c.hub.metrics.IncrementConnectionErrors()
			}
			return
		}

		if !c.hub.limiter.Allow(c.id) {
			c.log.Warn("Rate limit exceeded")
			c.hub.metrics.IncrementRateLimitViolations()
			c.SendMessage(&models.OutboundMessage{
				Type:    models.MsgTypeError,
				Payload: apperrors.ErrRateLimited.Error(),
			})
			continue
		}

		c.hub.metrics.IncrementMessagesReceived()
		c.handler.HandleMessage(c.id, message)
	}
}

// SendMessage marshals and queues a message for this client only.
func (c *Client) SendMessage(msg *models.OutboundMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("Error marshaling message", "type", msg.Type, "error", err)
		return false
	}
	return c.Send(data)
}

// Send queues a message for sending to the client
func (c *Client) Send(message []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		// Channel full, client is too slow
		c.log.Warn("Send buffer full, closing slow client")
		c.hub.metrics.IncrementBroadcastErrors()
		go c.Close()
		return false
	}
}

// Close cleanly shuts down the client connection
func (c *Client) Close() {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.closeMu.Unlock()

	// The close handshake can take seconds; Send must not wait on it
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
	c.cancel()
}
