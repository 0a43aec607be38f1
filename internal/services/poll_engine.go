package services

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/damione1/live-poll/internal/config"
	apperrors "github.com/damione1/live-poll/internal/errors"
	"github.com/damione1/live-poll/internal/models"
)

// PollEngine owns the single active poll slot and the history of finished
// polls. Every mutating method returns the effects the caller must emit.
//
// PollEngine is not safe for concurrent use; the Coordinator runs all calls
// on its event loop, which is what makes a timer expiry and an explicit end
// unable to both finalize the same poll.
type PollEngine struct {
	registry *ParticipantRegistry
	clock    Clock
	interval time.Duration

	active  *models.Poll
	ticker  Ticker
	history []models.PollResult
}

func NewPollEngine(registry *ParticipantRegistry, clock Clock) *PollEngine {
	return &PollEngine{
		registry: registry,
		clock:    clock,
		interval: config.TickInterval,
	}
}

// Start opens a new poll and starts its countdown.
//
// Returns ErrPollAlreadyActive, leaving the running poll untouched, when a poll
// has not ended yet. Returns ErrInvalidPoll for a poll with no options or a
// non-positive time limit.
func (e *PollEngine) Start(question string, options []string, timeLimit int) ([]Effect, error) {
	if e.active.IsActive() {
		return nil, apperrors.ErrPollAlreadyActive
	}
	if len(options) == 0 || timeLimit <= 0 {
		return nil, apperrors.ErrInvalidPoll
	}

	e.active = models.NewPoll(uuid.NewString(), question, options, timeLimit, e.clock.Now())
	e.ticker = e.clock.NewTicker(e.interval)

	return []Effect{broadcast(models.MsgTypeNewPoll, models.Announcement{
		Question: e.active.Question,
		Options:  e.active.Options,
		Time:     e.active.TimeLimit,
	})}, nil
}

// TickC is the countdown channel of the active poll, nil when there is none.
// A nil channel blocks forever, so a select on it is inert while idle.
func (e *PollEngine) TickC() <-chan time.Time {
	if e.ticker == nil {
		return nil
	}
	return e.ticker.C()
}

// Tick advances the countdown by one second. Reaching zero ends the poll in
// the same step.
func (e *PollEngine) Tick() []Effect {
	if !e.active.IsActive() {
		return nil
	}

	e.active.TimeLeft--
	effects := []Effect{broadcast(models.MsgTypePollUpdate, models.TickUpdate{TimeLeft: e.active.TimeLeft})}

	if e.active.TimeLeft <= 0 {
		effects = append(effects, e.End()...)
	}
	return effects
}

// SubmitVote records optionIndex as connID's choice, replacing any earlier
// one. Votes with no active poll, an out of range index, or from a
// connection that has not joined are dropped; the return value only says
// whether the vote was kept.
func (e *PollEngine) SubmitVote(connID string, optionIndex int) bool {
	if !e.active.CanAcceptVote(optionIndex) {
		return false
	}
	if !e.registry.Has(connID) {
		return false
	}

	e.active.Votes[connID] = optionIndex
	return true
}

// RemoveVoteFor drops connID's vote from the active poll, if any.
func (e *PollEngine) RemoveVoteFor(connID string) {
	if !e.active.IsActive() {
		return
	}
	delete(e.active.Votes, connID)
}

// End finalizes the active poll into a PollResult. It is a no-op when there
// is nothing to end, so redundant calls are harmless.
func (e *PollEngine) End() []Effect {
	if !e.active.IsActive() {
		return nil
	}

	e.stopTicker()
	e.active.HasEnded = true

	result := models.PollResult{
		Question:         e.active.Question,
		Options:          e.active.Options,
		Results:          e.active.Tally(),
		ParticipantCount: e.registry.Size(),
		VoteCount:        len(e.active.Votes),
		Timestamp:        e.clock.Now(),
	}
	e.history = append(e.history, result)
	e.active = nil

	return []Effect{broadcast(models.MsgTypePollEnded, result)}
}

// History returns finished polls, most recent first.
func (e *PollEngine) History() []models.PollResult {
	history := slices.Clone(e.history)
	slices.Reverse(history)
	if history == nil {
		history = []models.PollResult{}
	}
	return history
}

// CurrentAnnouncementFor builds the new-poll payload for a participant who
// joins mid-poll. It carries the remaining time so the late joiner's
// countdown matches everyone else's.
func (e *PollEngine) CurrentAnnouncementFor(connID string) (models.Announcement, bool) {
	if !e.active.IsActive() {
		return models.Announcement{}, false
	}
	return models.Announcement{
		Question: e.active.Question,
		Options:  e.active.Options,
		Time:     e.active.TimeLeft,
	}, true
}

// Active returns a read-only view of the running poll.
func (e *PollEngine) Active() (models.PollView, bool) {
	if !e.active.IsActive() {
		return models.PollView{}, false
	}
	return models.PollView{
		ID:        e.active.ID,
		Question:  e.active.Question,
		Options:   slices.Clone(e.active.Options),
		TimeLimit: e.active.TimeLimit,
		TimeLeft:  e.active.TimeLeft,
		StartedAt: e.active.StartedAt,
		VoteCount: len(e.active.Votes),
	}, true
}

// Shutdown stops the countdown without finalizing the poll.
func (e *PollEngine) Shutdown() {
	e.stopTicker()
}

func (e *PollEngine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}
