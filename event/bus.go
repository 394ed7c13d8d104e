package event

import (
	"sync/atomic"
)

// Handler processes specific event types
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously during Flush, on the dispatch goroutine
	HandleEvent(ev Event)

	// EventTypes returns the event types this handler processes
	EventTypes() []Type
}

// HandlerFunc adapts a function to Handler for the listed types
type HandlerFunc struct {
	Types []Type
	Fn    func(Event)
}

func (h HandlerFunc) HandleEvent(ev Event) { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []Type  { return h.Types }

// Bus queues events raised during a game operation and routes them on Flush
//
// Architecture:
//   - Single-threaded: Emit and Flush run on the dispatch goroutine
//   - Handlers are invoked in registration order
//   - Events emitted by a handler during Flush are delivered in the same Flush
type Bus struct {
	handlers [typeCount][]Handler
	pending  []Event
	flushing bool

	emitted *atomic.Int64
}

// NewBus creates an empty bus; counter may be nil
func NewBus(counter *atomic.Int64) *Bus {
	return &Bus{emitted: counter}
}

// Register adds a handler for its declared event types
func (b *Bus) Register(h Handler) {
	for _, t := range h.EventTypes() {
		if t >= 0 && t < typeCount {
			b.handlers[t] = append(b.handlers[t], h)
		}
	}
}

// Emit queues an event for the next Flush
func (b *Bus) Emit(ev Event) {
	b.pending = append(b.pending, ev)
	if b.emitted != nil {
		b.emitted.Add(1)
	}
}

// Flush delivers pending events in FIFO order
// Re-entrant calls from handlers return immediately; the outer Flush drains their events
func (b *Bus) Flush() {
	if b.flushing {
		return
	}
	b.flushing = true
	defer func() { b.flushing = false }()

	for len(b.pending) > 0 {
		ev := b.pending[0]
		b.pending = b.pending[1:]
		for _, h := range b.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	b.pending = nil
}

// Drop discards pending events, used when a level is torn down
func (b *Bus) Drop() {
	b.pending = nil
}

// Pending returns the number of undelivered events
func (b *Bus) Pending() int {
	return len(b.pending)
}

// HandlerCount returns the number of handlers registered for the given type
func (b *Bus) HandlerCount(t Type) int {
	if t < 0 || t >= typeCount {
		return 0
	}
	return len(b.handlers[t])
}
