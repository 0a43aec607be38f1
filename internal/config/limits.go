package config

import "time"

// Poll lifecycle
const (
	// TickInterval is the countdown granularity of an active poll
	TickInterval = time.Second

	// Coordinator operations queue
	CoordinatorOpsBufferSize = 256
)

// WebSocket connection limits and constraints
const (
	// Connection limits
	MaxTotalConnections = 10000

	// Rate limiting
	MaxMessagesPerSecond = 10
	RateLimitWindow      = time.Second

	// Timeouts
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second

	// Frame size limit for inbound messages
	MaxMessageSize = 16 * 1024

	// Channel buffers
	ClientSendBufferSize = 256
)

// Input length constraints
const (
	MaxParticipantNameLength = 50
	MaxChatMessageLength     = 1000
)

// Health thresholds, as a share of MaxTotalConnections
const (
	CriticalConnections = MaxTotalConnections * 9 / 10
	WarningConnections  = MaxTotalConnections * 8 / 10
	WarningErrorCount   = 100
)
