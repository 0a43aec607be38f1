package models

import (
	"time"
)

type PollState string

const (
	PollStateIdle   PollState = "idle"
	PollStateActive PollState = "active"
	PollStateEnded  PollState = "ended"
)

// Poll is the single in-flight poll. Votes maps a connection id to the
// chosen option index; a later vote from the same connection overwrites it.
type Poll struct {
	ID        string
	Question  string
	Options   []string
	TimeLimit int
	TimeLeft  int
	StartedAt time.Time
	HasEnded  bool
	Votes     map[string]int
}

func NewPoll(id, question string, options []string, timeLimit int, now time.Time) *Poll {
	return &Poll{
		ID:        id,
		Question:  question,
		Options:   append([]string(nil), options...),
		TimeLimit: timeLimit,
		TimeLeft:  timeLimit,
		StartedAt: now,
		Votes:     make(map[string]int),
	}
}

func (p *Poll) State() PollState {
	if p == nil {
		return PollStateIdle
	}
	if p.HasEnded {
		return PollStateEnded
	}
	return PollStateActive
}

func (p *Poll) IsActive() bool {
	return p.State() == PollStateActive
}

func (p *Poll) CanAcceptVote(optionIndex int) bool {
	return p.IsActive() && optionIndex >= 0 && optionIndex < len(p.Options)
}

// Tally counts votes per option, zero-filled for options nobody picked.
func (p *Poll) Tally() []int {
	results := make([]int, len(p.Options))
	for _, optionIndex := range p.Votes {
		results[optionIndex]++
	}
	return results
}

// Announcement is the new-poll payload. Time is the limit when a poll starts
// and the remaining seconds when sent to a late joiner.
type Announcement struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Time     int      `json:"time"`
}

type TickUpdate struct {
	TimeLeft int `json:"timeLeft"`
}

// PollResult is the archived outcome of a finished poll. Never mutated after creation.
type PollResult struct {
	Question         string    `json:"question"`
	Options          []string  `json:"options"`
	Results          []int     `json:"results"`
	ParticipantCount int       `json:"participants"`
	VoteCount        int       `json:"votes"`
	Timestamp        time.Time `json:"timestamp"`
}

// PollView is a read-only snapshot of the active poll for the HTTP API.
type PollView struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	TimeLimit int       `json:"timeLimit"`
	TimeLeft  int       `json:"timeLeft"`
	StartedAt time.Time `json:"startedAt"`
	VoteCount int       `json:"votes"`
}
