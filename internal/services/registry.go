package services

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/damione1/live-poll/internal/models"
)

// ParticipantRegistry maps connection ids to joined participants.
// It is not safe for concurrent use; the Coordinator serializes access.
type ParticipantRegistry struct {
	participants map[string]*models.Participant
	now          func() time.Time
}

func NewParticipantRegistry(clock Clock) *ParticipantRegistry {
	return &ParticipantRegistry{
		participants: make(map[string]*models.Participant),
		now:          clock.Now,
	}
}

// Join inserts or replaces the participant for connID. A re-join overwrites
// the previous name and join time.
func (r *ParticipantRegistry) Join(connID, name string) {
	r.participants[connID] = models.NewParticipant(connID, name, r.now())
}

// Remove deletes the participant and reports whether it was present.
func (r *ParticipantRegistry) Remove(connID string) bool {
	if _, ok := r.participants[connID]; !ok {
		return false
	}
	delete(r.participants, connID)
	return true
}

func (r *ParticipantRegistry) Has(connID string) bool {
	_, ok := r.participants[connID]
	return ok
}

func (r *ParticipantRegistry) Get(connID string) (*models.Participant, bool) {
	p, ok := r.participants[connID]
	return p, ok
}

func (r *ParticipantRegistry) Size() int {
	return len(r.participants)
}

// Snapshot returns the membership list ordered by join time, then id.
func (r *ParticipantRegistry) Snapshot() []models.ParticipantSummary {
	participants := lo.Values(r.participants)
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].JoinedAt.Equal(participants[j].JoinedAt) {
			return participants[i].ID < participants[j].ID
		}
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})

	return lo.Map(participants, func(p *models.Participant, _ int) models.ParticipantSummary {
		return models.ParticipantSummary{ID: p.ID, Name: p.Name}
	})
}
