package run

import (
	"sync"

	"github.com/google/uuid"
)

// Event types mark the run lifecycle for subscribers (the busy indication
// on the page, mostly).
const (
	EventRunStarted    = "run-started"
	EventEvidenceReady = "evidence-ready"
	EventRunFinished   = "run-finished"
	EventRunFailed     = "run-failed"
)

// Event is one lifecycle notification.
type Event struct {
	Type   string    `json:"type"`
	RunID  uuid.UUID `json:"run_id"`
	Detail string    `json:"detail,omitempty"`
}

// EventHub fans run events out to subscribers. Slow subscribers drop
// events rather than blocking the run.
type EventHub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and an unsubscribe func. The channel
// is buffered; events beyond the buffer are dropped for that subscriber.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

func (h *EventHub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
