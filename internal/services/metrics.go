package services

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/damione1/live-poll/internal/config"
)

// Metrics tracks WebSocket server performance and poll activity
type Metrics struct {
	// Connection metrics
	activeConnections int64
	totalConnections  int64

	// Message metrics
	messagesReceived int64
	messagesSent     int64
	lastMessageTime  int64 // Unix timestamp

	// Poll metrics
	pollsStarted  int64
	pollsEnded    int64
	votesAccepted int64
	votesDropped  int64

	// Error metrics
	connectionErrors    int64
	broadcastErrors     int64
	rateLimitViolations int64

	// Resource metrics
	startTime time.Time
	process   *process.Process
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// CPU usage is optional; the snapshot omits it when the process can't be inspected
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.process = p
	}
	return m
}

// Connection tracking
func (m *Metrics) IncrementConnections() {
	atomic.AddInt64(&m.activeConnections, 1)
	atomic.AddInt64(&m.totalConnections, 1)
}

func (m *Metrics) DecrementConnections() {
	atomic.AddInt64(&m.activeConnections, -1)
}

// Message tracking
func (m *Metrics) IncrementMessagesReceived() {
	atomic.AddInt64(&m.messagesReceived, 1)
	atomic.StoreInt64(&m.lastMessageTime, time.Now().Unix())
}

func (m *Metrics) IncrementMessagesSent() {
	atomic.AddInt64(&m.messagesSent, 1)
}

// Poll tracking
func (m *Metrics) IncrementPollsStarted() {
	atomic.AddInt64(&m.pollsStarted, 1)
}

func (m *Metrics) IncrementPollsEnded() {
	atomic.AddInt64(&m.pollsEnded, 1)
}

func (m *Metrics) IncrementVotesAccepted() {
	atomic.AddInt64(&m.votesAccepted, 1)
}

func (m *Metrics) IncrementVotesDropped() {
	atomic.AddInt64(&m.votesDropped, 1)
}

// Error tracking
func (m *Metrics) IncrementConnectionErrors() {
	atomic.AddInt64(&m.connectionErrors, 1)
}

func (m *Metrics) IncrementBroadcastErrors() {
	atomic.AddInt64(&m.broadcastErrors, 1)
}

func (m *Metrics) IncrementRateLimitViolations() {
	atomic.AddInt64(&m.rateLimitViolations, 1)
}

// MetricsSnapshot represents a point-in-time view of metrics
type MetricsSnapshot struct {
	// Connection metrics
	ActiveConnections int64 `json:"active_connections"`
	TotalConnections  int64 `json:"total_connections"`

	// Message metrics
	MessagesReceived  int64   `json:"messages_received"`
	MessagesSent      int64   `json:"messages_sent"`
	MessagesPerSecond float64 `json:"messages_per_second"`
	LastMessageTime   string  `json:"last_message_time"`

	// Poll metrics
	PollsStarted  int64 `json:"polls_started"`
	PollsEnded    int64 `json:"polls_ended"`
	VotesAccepted int64 `json:"votes_accepted"`
	VotesDropped  int64 `json:"votes_dropped"`

	// Error metrics
	ConnectionErrors    int64 `json:"connection_errors"`
	BroadcastErrors     int64 `json:"broadcast_errors"`
	RateLimitViolations int64 `json:"rate_limit_violations"`

	// Resource metrics
	UptimeSeconds int64  `json:"uptime_seconds"`
	MemoryUsageMB uint64 `json:"memory_usage_mb"`
	NumGoroutines int    `json:"num_goroutines"`

	// Health indicators
	CPUUsagePercent float64 `json:"cpu_usage_percent,omitempty"`
	HealthStatus    string  `json:"health_status"`
}

// Snapshot returns a point-in-time view of all metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	uptime := time.Since(m.startTime)
	messagesPerSec := float64(atomic.LoadInt64(&m.messagesReceived)) / uptime.Seconds()

	lastMsgTime := atomic.LoadInt64(&m.lastMessageTime)
	lastMsgTimeStr := "never"
	if lastMsgTime > 0 {
		lastMsgTimeStr = time.Unix(lastMsgTime, 0).Format(time.RFC3339)
	}

	var cpuPercent float64
	if m.process != nil {
		if pct, err := m.process.CPUPercent(); err == nil {
			cpuPercent = pct
		}
	}

	return MetricsSnapshot{
		ActiveConnections:   atomic.LoadInt64(&m.activeConnections),
		TotalConnections:    atomic.LoadInt64(&m.totalConnections),
		MessagesReceived:    atomic.LoadInt64(&m.messagesReceived),
		MessagesSent:        atomic.LoadInt64(&m.messagesSent),
		MessagesPerSecond:   messagesPerSec,
		LastMessageTime:     lastMsgTimeStr,
		PollsStarted:        atomic.LoadInt64(&m.pollsStarted),
		PollsEnded:          atomic.LoadInt64(&m.pollsEnded),
		VotesAccepted:       atomic.LoadInt64(&m.votesAccepted),
		VotesDropped:        atomic.LoadInt64(&m.votesDropped),
		ConnectionErrors:    atomic.LoadInt64(&m.connectionErrors),
		BroadcastErrors:     atomic.LoadInt64(&m.broadcastErrors),
		RateLimitViolations: atomic.LoadInt64(&m.rateLimitViolations),
		UptimeSeconds:       int64(uptime.Seconds()),
		MemoryUsageMB:       memStats.Alloc / 1024 / 1024,
		NumGoroutines:       runtime.NumGoroutine(),
		CPUUsagePercent:     cpuPercent,
		HealthStatus:        m.calculateHealthStatus(),
	}
}

// calculateHealthStatus determines overall system health
func (m *Metrics) calculateHealthStatus() string {
	activeConns := atomic.LoadInt64(&m.activeConnections)
	errors := atomic.LoadInt64(&m.connectionErrors) + atomic.LoadInt64(&m.broadcastErrors)

	// Critical: over 90% capacity
	if activeConns > config.CriticalConnections {
		return "critical"
	}

	// Warning: over 80% capacity or some errors
	if activeConns > config.WarningConnections || errors > config.WarningErrorCount {
		return "warning"
	}

	return "healthy"
}
