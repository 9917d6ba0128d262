package events

import (
	"sync"
	"time"
)

// Handler receives events from the bus
type Handler func(Event)

// Bus provides event distribution across components. Emit dispatches to
// handlers synchronously, in subscription order.
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
	closed   bool
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event time and delivers it to every handler.
// Events emitted after Close are dropped.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, h := range handlers {
		h(e)
	}
}

// Close shuts down the event bus
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
