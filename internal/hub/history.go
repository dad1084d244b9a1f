package hub

import "encoding/json"

// DefaultHistoryLimit bounds a room's replay history when no limit is
// configured.
const DefaultHistoryLimit = 100

// History is the bounded, ordered, in-memory log of draw frames for one room.
// It is not safe for concurrent use; the owning room's lock guards it.
type History struct {
	max    int
	events []json.RawMessage
}

// NewHistory creates a History bounded at max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryLimit
	}
	return &History{max: max, events: make([]json.RawMessage, 0, max)}
}

// Append records a frame. Once the bound is reached the oldest entry is
// evicted first, so the buffer never exceeds max entries.
func (h *History) Append(frame []byte) {
	event := make(json.RawMessage, len(frame))
	copy(event, frame)

	if len(h.events) >= h.max {
		evict := len(h.events) - h.max + 1
		h.events = append(h.events[:0], h.events[evict:]...)
	}
	h.events = append(h.events, event)
}

// Snapshot returns a copy of the backlog in recording order.
func (h *History) Snapshot() []json.RawMessage {
	out := make([]json.RawMessage, len(h.events))
	copy(out, h.events)
	return out
}

// Len returns the number of recorded frames.
func (h *History) Len() int {
	return len(h.events)
}
