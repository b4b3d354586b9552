package session

import "sync"

const eventBufferSize = 16

// Hub is an in-process Monitor driven by explicit Emit calls. It is the unit
// tests inject interruptions through, and the seam other monitors (like the
// D-Bus reservation watcher) publish into.
type Hub struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

var _ Monitor = (*Hub)(nil)

// NewHub creates a hub with a buffered event channel.
func NewHub() *Hub {
	return &Hub{ch: make(chan Event, eventBufferSize)}
}

// Events returns the event stream.
func (h *Hub) Events() <-chan Event { return h.ch }

// Emit publishes an event. Non-blocking: events are dropped if the
// subscriber has fallen eventBufferSize behind.
func (h *Hub) Emit(k Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.ch <- Event{Kind: k}:
	default:
	}
}

// Close closes the event stream. Emit after Close is a no-op.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.ch)
	}
	return nil
}
