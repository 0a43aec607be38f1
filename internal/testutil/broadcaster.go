package testutil

import (
	"sync"

	"github.com/damione1/live-poll/internal/models"
)

// Delivery is one recorded outbound message. Target is empty for broadcasts.
type Delivery struct {
	Target  string
	Message *models.OutboundMessage
}

// RecordingBroadcaster keeps every message it is asked to deliver.
type RecordingBroadcaster struct {
	mu         sync.Mutex
	deliveries []Delivery
}

func NewRecordingBroadcaster() *RecordingBroadcaster {
	return &RecordingBroadcaster{}
}

func (r *RecordingBroadcaster) Broadcast(msg *models.OutboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Message: msg})
}

func (r *RecordingBroadcaster) SendTo(connID string, msg *models.OutboundMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Target: connID, Message: msg})
}

// Deliveries returns a copy of everything recorded so far.
func (r *RecordingBroadcaster) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// Broadcasts returns broadcast messages of the given type, in order.
func (r *RecordingBroadcaster) Broadcasts(msgType string) []*models.OutboundMessage {
	var out []*models.OutboundMessage
	for _, d := range r.Deliveries() {
		if d.Target == "" && d.Message.Type == msgType {
			out = append(out, d.Message)
		}
	}
	return out
}

// SentTo returns targeted messages for connID, in order.
func (r *RecordingBroadcaster) SentTo(connID string) []*models.OutboundMessage {
	var out []*models.OutboundMessage
	for _, d := range r.Deliveries() {
		if d.Target == connID {
			out = append(out, d.Message)
		}
	}
	return out
}

// Last returns the most recent message of the given type, broadcast or not.
func (r *RecordingBroadcaster) Last(msgType string) *models.OutboundMessage {
	deliveries := r.Deliveries()
	for i := len(deliveries) - 1; i >= 0; i-- {
		if deliveries[i].Message.Type == msgType {
			return deliveries[i].Message
		}
	}
	return nil
}

func (r *RecordingBroadcaster) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}
