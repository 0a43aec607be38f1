package models

import "encoding/json"

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundMessage is what the hub marshals and writes to connections.
type OutboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client → Server message types
const (
	MsgTypeStudentJoin    = "student-join"
	MsgTypeCreatePoll     = "create-poll"
	MsgTypeSubmitAnswer   = "submit-answer"
	MsgTypeEndPoll        = "end-poll"
	MsgTypeTeacherMessage = "teacher-message"
	MsgTypeStudentMessage = "student-message"
	MsgTypeKickStudent    = "kick-student"
	MsgTypeGetHistory     = "get-history"
)

// Server → Client message types
const (
	MsgTypeConnected      = "connected" // Tells a new connection its id
	MsgTypeStudentsUpdate = "students-update"
	MsgTypeNewPoll        = "new-poll"
	MsgTypePollUpdate     = "poll-update"
	MsgTypePollEnded      = "poll-ended"
	MsgTypeKicked         = "kicked"
	MsgTypeError          = "error"
	MsgTypePollHistory    = "poll-history"
)

// Chat messages reuse the inbound type names on the way out.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	IsTeacher bool   `json:"isTeacher"`
}

type ConnectedPayload struct {
	ID string `json:"id"`
}
