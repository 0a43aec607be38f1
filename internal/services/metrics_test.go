package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/damione1/live-poll/internal/config"
	"github.com/damione1/live-poll/internal/services"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := services.NewMetrics()

	m.IncrementConnections()
	m.IncrementConnections()
	m.DecrementConnections()
	m.IncrementMessagesReceived()
	m.IncrementMessagesSent()
	m.IncrementPollsStarted()
	m.IncrementPollsEnded()
	m.IncrementVotesAccepted()
	m.IncrementVotesDropped()
	m.IncrementRateLimitViolations()

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.ActiveConnections)
	assert.Equal(t, int64(2), s.TotalConnections)
	assert.Equal(t, int64(1), s.MessagesReceived)
	assert.Equal(t, int64(1), s.MessagesSent)
	assert.Equal(t, int64(1), s.PollsStarted)
	assert.Equal(t, int64(1), s.PollsEnded)
	assert.Equal(t, int64(1), s.VotesAccepted)
	assert.Equal(t, int64(1), s.VotesDropped)
	assert.Equal(t, int64(1), s.RateLimitViolations)
	assert.NotEqual(t, "never", s.LastMessageTime)
	assert.Positive(t, s.NumGoroutines)
}

func TestMetrics_HealthStatus(t *testing.T) {
	t.Run("healthy by default", func(t *testing.T) {
		assert.Equal(t, "healthy", services.NewMetrics().Snapshot().HealthStatus)
	})

	t.Run("warning on errors", func(t *testing.T) {
		m := services.NewMetrics()
		for i := 0; i <= config.WarningErrorCount; i++ {
			m.IncrementBroadcastErrors()
		}
		assert.Equal(t, "warning", m.Snapshot().HealthStatus)
	})

	t.Run("warning near capacity", func(t *testing.T) {
		m := services.NewMetrics()
		for i := 0; i <= config.WarningConnections; i++ {
			m.IncrementConnections()
		}
		assert.Equal(t, "warning", m.Snapshot().HealthStatus)
	})

	t.Run("critical over capacity", func(t *testing.T) {
		m := services.NewMetrics()
		for i := 0; i <= config.CriticalConnections; i++ {
			m.IncrementConnections()
		}
		assert.Equal(t, "critical", m.Snapshot().HealthStatus)
	})
}
