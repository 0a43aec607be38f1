package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	apperrors "github.com/damione1/live-poll/internal/errors"
	"github.com/damione1/live-poll/internal/models"
	"github.com/damione1/live-poll/internal/security"
)

// PayloadValidator decodes and validates inbound message payloads
type PayloadValidator struct {
	validate *validator.Validate
}

// NewPayloadValidator creates a new payload validator instance
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{validate: validator.New()}
}

// ParseCreatePoll decodes a create-poll payload, trims question and options,
// and checks there is at least one option and a positive time limit.
// Option order is preserved since votes refer to options by index.
// Every failure wraps ErrInvalidPoll.
func (v *PayloadValidator) ParseCreatePoll(raw json.RawMessage) (models.CreatePollRequest, error) {
	var req models.CreatePollRequest
	if err := decode(raw, &req); err != nil {
		return models.CreatePollRequest{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidPoll, err)
	}

	req.Question = strings.TrimSpace(req.Question)
	req.Options = lo.Map(req.Options, func(option string, _ int) string {
		return strings.TrimSpace(option)
	})

	if err := v.validate.Struct(req); err != nil {
		return models.CreatePollRequest{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidPoll, err)
	}
	return req, nil
}

// ParseOptionIndex decodes a submit-answer payload. Range checks belong to
// the poll engine, which drops out of range votes silently.
func (v *PayloadValidator) ParseOptionIndex(raw json.RawMessage) (int, error) {
	var index int
	if err := decode(raw, &index); err != nil {
		return 0, err
	}
	return index, nil
}

// ParseJoinName decodes a student-join payload and validates the display name.
func (v *PayloadValidator) ParseJoinName(raw json.RawMessage) (string, error) {
	var name string
	if err := decode(raw, &name); err != nil {
		return "", err
	}
	name, err := security.ValidateParticipantName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return name, nil
}

// ParseTeacherMessage decodes a teacher-message payload.
func (v *PayloadValidator) ParseTeacherMessage(raw json.RawMessage) (string, error) {
	var text string
	if err := decode(raw, &text); err != nil {
		return "", err
	}
	text, err := security.ValidateChatText(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return text, nil
}

// ParseStudentMessage decodes a student-message payload.
func (v *PayloadValidator) ParseStudentMessage(raw json.RawMessage) (models.StudentMessageRequest, error) {
	var req models.StudentMessageRequest
	if err := decode(raw, &req); err != nil {
		return models.StudentMessageRequest{}, err
	}

	text, err := security.ValidateChatText(req.Text)
	if err != nil {
		return models.StudentMessageRequest{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	req.Text = text
	req.Sender = strings.TrimSpace(req.Sender)

	if err := v.validate.Struct(req); err != nil {
		return models.StudentMessageRequest{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return req, nil
}

// ParseKickTarget decodes a kick-student payload. Whether the target is in
// the session is the coordinator's call; unknown ids are no-ops there.
func (v *PayloadValidator) ParseKickTarget(raw json.RawMessage) (string, error) {
	var target string
	if err := decode(raw, &target); err != nil {
		return "", err
	}
	return target, nil
}

func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", apperrors.ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidPayload, err)
	}
	return nil
}
