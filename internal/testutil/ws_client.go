package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// ReceivedMessage is an outbound message as a client sees it on the wire.
type ReceivedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the payload into dst.
func (m ReceivedMessage) Decode(dst any) error {
	return json.Unmarshal(m.Payload, dst)
}

// WSClient is a test WebSocket client
type WSClient struct {
	conn       *websocket.Conn
	messages   []ReceivedMessage
	messagesMu sync.RWMutex
	closed     bool
	closedMu   sync.RWMutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient() *WSClient {
	return &WSClient{
		messages: make([]ReceivedMessage, 0),
	}
}

// Connect dials an httptest server URL (http:// is rewritten to ws://).
func (c *WSClient) Connect(url string) error {
	url = strings.Replace(url, "http://", "ws://", 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn

	// Start receiving messages in background
	go c.receiveMessages()

	return nil
}

// receiveMessages continuously reads messages from the WebSocket
func (c *WSClient) receiveMessages() {
	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			return
		}

		var msg ReceivedMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			c.messagesMu.Lock()
			c.messages = append(c.messages, msg)
			c.messagesMu.Unlock()
		}
	}
}

// Send writes a {"type","payload"} envelope.
func (c *WSClient) Send(msgType string, payload any) error {
	envelope := map[string]any{"type": msgType}
	if payload != nil {
		envelope["payload"] = payload
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// SendRaw writes data as-is.
func (c *WSClient) SendRaw(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// WaitForMessageType waits for the first message of a type
func (c *WSClient) WaitForMessageType(msgType string, timeout time.Duration) *ReceivedMessage {
	return c.WaitForNthMessageType(msgType, 1, timeout)
}

// WaitForNthMessageType waits until n messages of a type arrived and returns the nth
func (c *WSClient) WaitForNthMessageType(msgType string, n int, timeout time.Duration) *ReceivedMessage {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		c.messagesMu.RLock()
		seen := 0
		for _, msg := range c.messages {
			if msg.Type == msgType {
				seen++
				if seen == n {
					c.messagesMu.RUnlock()
					return &msg
				}
			}
		}
		c.messagesMu.RUnlock()

		time.Sleep(10 * time.Millisecond)
	}

	return nil
}

// ReceivedMessages returns all received messages
func (c *WSClient) ReceivedMessages() []ReceivedMessage {
	c.messagesMu.RLock()
	defer c.messagesMu.RUnlock()

	messages := make([]ReceivedMessage, len(c.messages))
	copy(messages, c.messages)
	return messages
}

// ClearMessages clears all received messages
func (c *WSClient) ClearMessages() {
	c.messagesMu.Lock()
	c.messages = make([]ReceivedMessage, 0)
	c.messagesMu.Unlock()
}

// Close closes the WebSocket connection
func (c *WSClient) Close() {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	if c.conn != nil {
		c.conn.Close(websocket.StatusNormalClosure, "")
	}
}
