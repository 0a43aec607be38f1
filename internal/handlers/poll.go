package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/damione1/live-poll/internal/models"
)

// PollReader is the read side of the session coordinator.
type PollReader interface {
	ActivePoll() (models.PollView, bool)
	History() []models.PollResult
	Participants() []models.ParticipantSummary
}

type PollHandlers struct {
	polls PollReader
}

func NewPollHandlers(polls PollReader) *PollHandlers {
	return &PollHandlers{polls: polls}
}

// ActivePoll serves GET /live/poll
func (h *PollHandlers) ActivePoll(re *core.RequestEvent) error {
	view, ok := h.polls.ActivePoll()
	if !ok {
		return re.JSON(http.StatusNotFound, map[string]string{
			"error": "No active poll",
		})
	}
	return re.JSON(http.StatusOK, view)
}

// History serves GET /live/history, most recent poll first
func (h *PollHandlers) History(re *core.RequestEvent) error {
	return re.JSON(http.StatusOK, h.polls.History())
}

// Participants serves GET /live/participants
func (h *PollHandlers) Participants(re *core.RequestEvent) error {
	return re.JSON(http.StatusOK, h.polls.Participants())
}
