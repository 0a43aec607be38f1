package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damione1/live-poll/internal/models"
	"github.com/damione1/live-poll/internal/services"
)

func TestParticipantRegistry_Join(t *testing.T) {
	t.Run("adds a participant", func(t *testing.T) {
		registry := services.NewParticipantRegistry(newManualClock())

		registry.Join("conn-a", "Alice")

		assert.True(t, registry.Has("conn-a"))
		assert.Equal(t, 1, registry.Size())
		p, ok := registry.Get("conn-a")
		require.True(t, ok)
		assert.Equal(t, "Alice", p.Name)
	})

	t.Run("re-join overwrites the name", func(t *testing.T) {
		registry := services.NewParticipantRegistry(newManualClock())

		registry.Join("conn-a", "Alice")
		registry.Join("conn-a", "Alicia")

		assert.Equal(t, 1, registry.Size())
		assert.Equal(t, []models.ParticipantSummary{{ID: "conn-a", Name: "Alicia"}}, registry.Snapshot())
	})

	t.Run("duplicate names on different connections are allowed", func(t *testing.T) {
		registry := services.NewParticipantRegistry(newManualClock())

		registry.Join("conn-a", "Sam")
		registry.Join("conn-b", "Sam")

		assert.Equal(t, 2, registry.Size())
	})
}

func TestParticipantRegistry_Remove(t *testing.T) {
	registry := services.NewParticipantRegistry(newManualClock())
	registry.Join("conn-a", "Alice")

	assert.True(t, registry.Remove("conn-a"))
	assert.False(t, registry.Has("conn-a"))
	assert.False(t, registry.Remove("conn-a"), "second remove is a no-op")
	assert.False(t, registry.Remove("never-joined"))
	assert.Equal(t, 0, registry.Size())
}

func TestParticipantRegistry_Snapshot(t *testing.T) {
	t.Run("empty registry gives an empty list", func(t *testing.T) {
		registry := services.NewParticipantRegistry(newManualClock())

		snapshot := registry.Snapshot()
		assert.NotNil(t, snapshot)
		assert.Empty(t, snapshot)
	})

	t.Run("ordered by join time", func(t *testing.T) {
		clock := newManualClock()
		registry := services.NewParticipantRegistry(clock)

		registry.Join("conn-z", "Zoe")
		clock.Advance(time.Second)
		registry.Join("conn-a", "Adam")
		clock.Advance(time.Second)
		registry.Join("conn-m", "Mia")

		assert.Equal(t, []models.ParticipantSummary{
			{ID: "conn-z", Name: "Zoe"},
			{ID: "conn-a", Name: "Adam"},
			{ID: "conn-m", Name: "Mia"},
		}, registry.Snapshot())
	})

	t.Run("ties broken by id", func(t *testing.T) {
		registry := services.NewParticipantRegistry(newManualClock())

		registry.Join("conn-b", "Bob")
		registry.Join("conn-a", "Alice")

		snapshot := registry.Snapshot()
		require.Len(t, snapshot, 2)
		assert.Equal(t, "conn-a", snapshot[0].ID)
		assert.Equal(t, "conn-b", snapshot[1].ID)
	})
}
