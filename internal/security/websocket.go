package security

import (
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/damione1/live-poll/internal/models"
)

// WebSocket message type validation
var validMessageTypes = map[string]bool{
	models.MsgTypeStudentJoin:    true,
	models.MsgTypeCreatePoll:     true,
	models.MsgTypeSubmitAnswer:   true,
	models.MsgTypeEndPoll:        true,
	models.MsgTypeTeacherMessage: true,
	models.MsgTypeStudentMessage: true,
	models.MsgTypeKickStudent:    true,
	models.MsgTypeGetHistory:     true,
}

// IsValidMessageType checks if a WebSocket message type is valid
func IsValidMessageType(msgType string) bool {
	return validMessageTypes[msgType]
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// RateLimiter provides per-connection rate limiting for WebSocket messages
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	maxTokens int
	window    time.Duration
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum messages per window
// window: time window for rate limiting (e.g., 1 second)
func NewRateLimiter(maxTokens int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		maxTokens: maxTokens,
		window:    window,
		now:       time.Now,
	}
}

// Allow checks if a connection is allowed to send a message
// Returns true if allowed, false if rate limit exceeded
func (rl *RateLimiter) Allow(connID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[connID]
	if !ok || !now.Before(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(rl.window)}
		rl.buckets[connID] = b
	}

	b.count++
	return b.count <= rl.maxTokens
}

// Remove cleans up rate limiter state for a disconnected connection
func (rl *RateLimiter) Remove(connID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, connID)
}

// OriginValidator validates WebSocket connection origins
type OriginValidator struct {
	allowedPatterns []string
}

// NewOriginValidator creates a new origin validator
func NewOriginValidator(patterns []string) *OriginValidator {
	return &OriginValidator{
		allowedPatterns: patterns,
	}
}

// GetAcceptOptions returns websocket.AcceptOptions with origin patterns.
// A lone "*" pattern accepts any origin.
func (ov *OriginValidator) GetAcceptOptions() *websocket.AcceptOptions {
	return &websocket.AcceptOptions{
		OriginPatterns: ov.allowedPatterns,
	}
}
