//go:generate go run go.uber.org/mock/mockgen -source=broadcaster.go -destination=../mocks/mock_broadcaster.go -package=mocks

package services

import "github.com/damione1/live-poll/internal/models"

// Broadcaster delivers outbound messages to connections. Implementations must
// not block the caller: delivery is fire-and-forget.
type Broadcaster interface {
	Broadcast(msg *models.OutboundMessage)
	SendTo(connID string, msg *models.OutboundMessage)
}

// Effect is a notification produced by a state transition. An empty Target
// means every connection.
type Effect struct {
	Target  string
	Message *models.OutboundMessage
}

func broadcast(msgType string, payload any) Effect {
	return Effect{Message: &models.OutboundMessage{Type: msgType, Payload: payload}}
}

func sendTo(connID, msgType string, payload any) Effect {
	return Effect{Target: connID, Message: &models.OutboundMessage{Type: msgType, Payload: payload}}
}

// Emit hands effects to the broadcaster in order.
func Emit(b Broadcaster, effects []Effect) {
	for _, effect := range effects {
		if effect.Target == "" {
			b.Broadcast(effect.Message)
		} else {
			b.SendTo(effect.Target, effect.Message)
		}
	}
}
