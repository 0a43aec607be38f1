package models

import "time"

type Participant struct {
	ID       string
	Name     string
	JoinedAt time.Time
}

func NewParticipant(id, name string, joinedAt time.Time) *Participant {
	return &Participant{
		ID:       id,
		Name:     name,
		JoinedAt: joinedAt,
	}
}

// ParticipantSummary is the membership entry sent in students-update
type ParticipantSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
