package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/damione1/live-poll/internal/errors"
	"github.com/damione1/live-poll/internal/models"
	"github.com/damione1/live-poll/internal/security"
)

// Router turns raw websocket frames into Coordinator calls. Frames that fail
// to decode or validate never reach the coordinator. A rejected create-poll
// earns the sender an error notice; anything else is logged and dropped.
type Router struct {
	coordinator *Coordinator
	notifier    Broadcaster
	validator   *PayloadValidator
	log         *slog.Logger
}

func NewRouter(coordinator *Coordinator, notifier Broadcaster, log *slog.Logger) *Router {
	return &Router{
		coordinator: coordinator,
		notifier:    notifier,
		validator:   NewPayloadValidator(),
		log:         log,
	}
}

// HandleMessage implements MessageHandler.
func (r *Router) HandleMessage(connID string, data []byte) {
	err := r.route(connID, data)
	if err == nil {
		return
	}
	if !errors.Is(err, apperrors.ErrInvalidPoll) {
		r.log.Debug("Ignored message", "conn", connID, "error", err)
		return
	}

	r.log.Warn("Rejected poll", "conn", connID, "error", err)
	r.notifier.SendTo(connID, &models.OutboundMessage{
		Type:    models.MsgTypeError,
		Payload: err.Error(),
	})
}

// HandleDisconnect implements MessageHandler.
func (r *Router) HandleDisconnect(connID string) {
	r.coordinator.Disconnect(connID)
}

func (r *Router) route(connID string, data []byte) error {
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	if !security.IsValidMessageType(msg.Type) {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownMessageType, msg.Type)
	}

	switch msg.Type {
	case models.MsgTypeStudentJoin:
		name, err := r.validator.ParseJoinName(msg.Payload)
		if err != nil {
			return err
		}
		r.coordinator.Join(connID, name)

	case models.MsgTypeCreatePoll:
		req, err := r.validator.ParseCreatePoll(msg.Payload)
		if err != nil {
			return err
		}
		// The coordinator already told the requester about a running poll
		_ = r.coordinator.CreatePoll(connID, req)

	case models.MsgTypeSubmitAnswer:
		index, err := r.validator.ParseOptionIndex(msg.Payload)
		if err != nil {
			return err
		}
		r.coordinator.SubmitAnswer(connID, index)

	case models.MsgTypeEndPoll:
		r.coordinator.EndPoll(connID)

	case models.MsgTypeTeacherMessage:
		text, err := r.validator.ParseTeacherMessage(msg.Payload)
		if err != nil {
			return err
		}
		r.coordinator.TeacherMessage(connID, text)

	case models.MsgTypeStudentMessage:
		req, err := r.validator.ParseStudentMessage(msg.Payload)
		if err != nil {
			return err
		}
		r.coordinator.StudentMessage(connID, req.Text, req.Sender)

	case models.MsgTypeKickStudent:
		target, err := r.validator.ParseKickTarget(msg.Payload)
		if err != nil {
			return err
		}
		r.coordinator.Kick(connID, target)

	case models.MsgTypeGetHistory:
		r.coordinator.GetHistory(connID)
	}

	return nil
}
