// Package events provides the in-process lifecycle event bus.
package events

import (
	"sync"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Ensure Bus implements domain.Publisher.
var _ domain.Publisher = (*Bus)(nil)

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(domain.Event)

// Bus fans events out to subscribers. Delivery is fire-and-forget: a
// subscriber added after an event was published never sees it, and
// publishing with no subscribers is a no-op.
type Bus struct {
	handlers map[int]Handler
	mu       sync.RWMutex
	nextID   int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(event domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
