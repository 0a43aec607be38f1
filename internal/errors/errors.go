package errors

import "fmt"

var (
	ErrPollAlreadyActive  = fmt.Errorf("a poll is already active")
	ErrInvalidPoll        = fmt.Errorf("poll needs at least one option and a positive time limit")
	ErrUnknownMessageType = fmt.Errorf("unknown message type")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
)
