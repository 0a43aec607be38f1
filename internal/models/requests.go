package models

// CreatePollRequest is the create-poll payload. Time is in seconds.
type CreatePollRequest struct {
	Question string   `json:"question" validate:"required,max=500"`
	Options  []string `json:"options" validate:"min=1,dive,required,max=200"`
	Time     int      `json:"time" validate:"min=1"`
}

type StudentMessageRequest struct {
	Text   string `json:"text" validate:"required,max=1000"`
	Sender string `json:"sender" validate:"required,max=50"`
}
