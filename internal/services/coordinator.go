package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/damione1/live-poll/internal/config"
	apperrors "github.com/damione1/live-poll/internal/errors"
	"github.com/damione1/live-poll/internal/models"
)

const pollAlreadyActiveNotice = "A poll is already active"

// Coordinator binds inbound session events to the participant registry and
// the poll engine.
//
// All state changes run on the goroutine started by Run. Callers submit a
// closure over the ops channel and wait for it to finish, so every operation
// is a run-to-completion step and the countdown tick is just another case in
// the same select.
type Coordinator struct {
	registry    *ParticipantRegistry
	engine      *PollEngine
	broadcaster Broadcaster
	metrics     *Metrics
	log         *slog.Logger
	teacherName string

	ops     chan func()
	stopped chan struct{}
}

func NewCoordinator(
	registry *ParticipantRegistry,
	engine *PollEngine,
	broadcaster Broadcaster,
	metrics *Metrics,
	log *slog.Logger,
	teacherName string,
) *Coordinator {
	return &Coordinator{
		registry:    registry,
		engine:      engine,
		broadcaster: broadcaster,
		metrics:     metrics,
		log:         log,
		teacherName: teacherName,
		ops:         make(chan func(), config.CoordinatorOpsBufferSize),
		stopped:     make(chan struct{}),
	}
}

// Run processes operations and countdown ticks until ctx is cancelled.
// It must be called exactly once.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.stopped)
	defer c.engine.Shutdown()

	c.log.Info("Session coordinator started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info("Session coordinator stopped")
			return
		case op := <-c.ops:
			op()
		case <-c.engine.TickC():
			c.emit(c.engine.Tick())
		}
	}
}

// do runs fn on the event loop and waits for it. After Run has returned, do
// is a no-op.
func (c *Coordinator) do(fn func()) {
	done := make(chan struct{})
	select {
	case c.ops <- func() { defer close(done); fn() }:
	case <-c.stopped:
		return
	}
	select {
	case <-done:
	case <-c.stopped:
	}
}

func (c *Coordinator) emit(effects []Effect) {
	for _, effect := range effects {
		switch effect.Message.Type {
		case models.MsgTypePollEnded:
			c.metrics.IncrementPollsEnded()
			if result, ok := effect.Message.Payload.(models.PollResult); ok {
				c.log.Info("Poll ended", "question", result.Question, "votes", result.VoteCount, "participants", result.ParticipantCount)
			}
		}
	}
	Emit(c.broadcaster, effects)
}

func (c *Coordinator) broadcastStudents() {
	c.broadcaster.Broadcast(&models.OutboundMessage{
		Type:    models.MsgTypeStudentsUpdate,
		Payload: c.registry.Snapshot(),
	})
}

// Join registers connID under name and syncs a running poll to it.
func (c *Coordinator) Join(connID, name string) {
	c.do(func() {
		c.registry.Join(connID, name)
		c.log.Info("Student joined", "name", name, "conn", connID)
		c.broadcastStudents()

		if announcement, ok := c.engine.CurrentAnnouncementFor(connID); ok {
			c.emit([]Effect{sendTo(connID, models.MsgTypeNewPoll, announcement)})
		}
	})
}

// CreatePoll starts a poll. When one is already running the requester alone
// gets an error notice and ErrPollAlreadyActive is returned.
func (c *Coordinator) CreatePoll(connID string, req models.CreatePollRequest) error {
	var err error
	c.do(func() {
		var effects []Effect
		effects, err = c.engine.Start(req.Question, req.Options, req.Time)
		switch {
		case errors.Is(err, apperrors.ErrPollAlreadyActive):
			c.emit([]Effect{sendTo(connID, models.MsgTypeError, pollAlreadyActiveNotice)})
			return
		case err != nil:
			c.emit([]Effect{sendTo(connID, models.MsgTypeError, err.Error())})
			return
		}

		c.metrics.IncrementPollsStarted()
		c.log.Info("Poll started", "question", req.Question, "options", len(req.Options), "time", req.Time)
		c.emit(effects)
	})
	return err
}

// SubmitAnswer records a vote. Invalid votes are dropped silently.
func (c *Coordinator) SubmitAnswer(connID string, optionIndex int) {
	c.do(func() {
		if c.engine.SubmitVote(connID, optionIndex) {
			c.metrics.IncrementVotesAccepted()
			return
		}
		c.metrics.IncrementVotesDropped()
		c.log.Debug("Vote dropped", "conn", connID, "option", optionIndex)
	})
}

// EndPoll finalizes the running poll. Safe to call with nothing running.
func (c *Coordinator) EndPoll(connID string) {
	c.do(func() {
		c.emit(c.engine.End())
	})
}

// TeacherMessage relays a chat line from the poll owner to everyone.
func (c *Coordinator) TeacherMessage(connID, text string) {
	c.do(func() {
		c.broadcaster.Broadcast(&models.OutboundMessage{
			Type:    models.MsgTypeTeacherMessage,
			Payload: models.ChatMessage{Text: text, Sender: c.teacherName, IsTeacher: true},
		})
	})
}

// StudentMessage relays a participant's chat line to everyone.
func (c *Coordinator) StudentMessage(connID, text, sender string) {
	c.do(func() {
		c.broadcaster.Broadcast(&models.OutboundMessage{
			Type:    models.MsgTypeStudentMessage,
			Payload: models.ChatMessage{Text: text, Sender: sender, IsTeacher: false},
		})
	})
}

// Kick removes target from the session and voids its vote in the running
// poll. Unknown targets are ignored.
func (c *Coordinator) Kick(connID, target string) {
	c.do(func() {
		if !c.registry.Has(target) {
			return
		}
		c.engine.RemoveVoteFor(target)
		c.broadcaster.SendTo(target, &models.OutboundMessage{Type: models.MsgTypeKicked})
		c.registry.Remove(target)
		c.broadcastStudents()
		c.log.Info("Student kicked", "conn", target, "by", connID)
	})
}

// Disconnect forgets a closed connection. Connections that never joined are
// ignored.
func (c *Coordinator) Disconnect(connID string) {
	c.do(func() {
		if !c.registry.Has(connID) {
			return
		}
		c.engine.RemoveVoteFor(connID)
		c.registry.Remove(connID)
		c.broadcastStudents()
		c.log.Info("Student disconnected", "conn", connID)
	})
}

// GetHistory replies to connID with finished polls, most recent first.
func (c *Coordinator) GetHistory(connID string) {
	c.do(func() {
		c.broadcaster.SendTo(connID, &models.OutboundMessage{
			Type:    models.MsgTypePollHistory,
			Payload: c.engine.History(),
		})
	})
}

// ActivePoll returns a snapshot of the running poll.
func (c *Coordinator) ActivePoll() (models.PollView, bool) {
	var (
		view models.PollView
		ok   bool
	)
	c.do(func() {
		view, ok = c.engine.Active()
	})
	return view, ok
}

// History returns finished polls, most recent first.
func (c *Coordinator) History() []models.PollResult {
	history := []models.PollResult{}
	c.do(func() {
		history = c.engine.History()
	})
	return history
}

// Participants returns the current membership list.
func (c *Coordinator) Participants() []models.ParticipantSummary {
	participants := []models.ParticipantSummary{}
	c.do(func() {
		participants = c.registry.Snapshot()
	})
	return participants
}
