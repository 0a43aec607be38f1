package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damione1/live-poll/internal/handlers"
	"github.com/damione1/live-poll/internal/models"
)

type stubPolls struct {
	active       *models.PollView
	history      []models.PollResult
	participants []models.ParticipantSummary
}

func (s stubPolls) ActivePoll() (models.PollView, bool) {
	if s.active == nil {
		return models.PollView{}, false
	}
	return *s.active, true
}

func (s stubPolls) History() []models.PollResult { return s.history }
func (s stubPolls) Participants() []models.ParticipantSummary { return s.participants }

func newRequestEvent(method, target string) (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(method, target, nil)
	e.Response = rec
	return e, rec
}

func TestPollHandlers_ActivePoll(t *testing.T) {
	t.Run("404 when idle", func(t *testing.T) {
		h := handlers.NewPollHandlers(stubPolls{})
		e, rec := newRequestEvent(http.MethodGet, "/live/poll")

		require.NoError(t, h.ActivePoll(e))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "No active poll")
	})

	t.Run("returns the running poll", func(t *testing.T) {
		h := handlers.NewPollHandlers(stubPolls{active: &models.PollView{
			ID: "p1", Question: "Color?", Options: []string{"Red", "Blue"}, TimeLimit: 30, TimeLeft: 12, VoteCount: 3,
		}})
		e, rec := newRequestEvent(http.MethodGet, "/live/poll")

		require.NoError(t, h.ActivePoll(e))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Color?", body["question"])
		assert.Equal(t, float64(12), body["timeLeft"])
		assert.Equal(t, float64(3), body["votes"])
	})
}

func TestPollHandlers_History(t *testing.T) {
	h := handlers.NewPollHandlers(stubPolls{history: []models.PollResult{{
		Question:         "Color?",
		Options:          []string{"Red", "Blue"},
		Results:          []int{0, 2},
		ParticipantCount: 2,
		VoteCount:        2,
		Timestamp:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}}})
	e, rec := newRequestEvent(http.MethodGet, "/live/history")

	require.NoError(t, h.History(e))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, []any{float64(0), float64(2)}, body[0]["results"])
	assert.Equal(t, float64(2), body[0]["participants"])
	assert.Equal(t, float64(2), body[0]["votes"])
	assert.Equal(t, "2024-03-01T09:00:00Z", body[0]["timestamp"])
}

func TestPollHandlers_Participants(t *testing.T) {
	h := handlers.NewPollHandlers(stubPolls{participants: []models.ParticipantSummary{{ID: "a", Name: "Alice"}}})
	e, rec := newRequestEvent(http.MethodGet, "/live/participants")

	require.NoError(t, h.Participants(e))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"a","name":"Alice"}]`, rec.Body.String())
}
