package models_test

import (
	"testing"
	"time"

	"github.com/damione1/live-poll/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNewParticipant(t *testing.T) {
	t.Run("creates participant with join time", func(t *testing.T) {
		joined := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		p := models.NewParticipant("conn-1", "Alice", joined)

		assert.Equal(t, "conn-1", p.ID)
		assert.Equal(t, "Alice", p.Name)
		assert.Equal(t, joined, p.JoinedAt)
	})

	t.Run("same name on different connections", func(t *testing.T) {
		p1 := models.NewParticipant("conn-1", "Alice", time.Now())
		p2 := models.NewParticipant("conn-2", "Alice", time.Now())

		assert.NotEqual(t, p1.ID, p2.ID)
		assert.Equal(t, p1.Name, p2.Name)
	})
}
