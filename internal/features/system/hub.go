package system

import (
	"sync"
	"time"
)

// Event is one pipeline lifecycle notification pushed to connected clients
type Event struct {
	Type         string    `json:"type"`
	NewsletterID string    `json:"newsletter_id,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types published by the pipeline
const (
	EventRunStarted = "run_started"
	EventGenerated  = "generated"
	EventEdited     = "edited"
	EventSent       = "sent"
	EventFailed     = "failed"
)

// EventHub fans pipeline events out to websocket subscribers. Slow
// subscribers drop events rather than blocking the pipeline.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan Event]bool
}

func NewEventHub() *EventHub {
	return &EventHub{
		subs: make(map[chan Event]bool),
	}
}

// Publish delivers the event to every subscriber without blocking
func (h *EventHub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a buffered event channel and an unsubscribe func
func (h *EventHub) Subscribe() (chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = true
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}
}
