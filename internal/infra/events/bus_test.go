package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	var first, second []domain.EventType
	unsubscribeFirst := bus.Subscribe(func(e domain.Event) { first = append(first, e.Type) })
	bus.Subscribe(func(e domain.Event) { second = append(second, e.Type) })

	bus.Publish(domain.Event{Type: domain.EventLockAcquired})
	assert.Equal(t, []domain.EventType{domain.EventLockAcquired}, first)
	assert.Equal(t, []domain.EventType{domain.EventLockAcquired}, second)

	unsubscribeFirst()
	bus.Publish(domain.Event{Type: domain.EventLockReleased})
	assert.Len(t, first, 1, "unsubscribed handlers see no further events")
	assert.Len(t, second, 2)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(domain.Event{Type: domain.EventLockAcquired})
	})
}

func TestBus_UnsubscribeTwice(t *testing.T) {
	bus := NewBus()

	var calls int
	unsubscribe := bus.Subscribe(func(domain.Event) { calls++ })
	unsubscribe()
	unsubscribe() // idempotent

	bus.Publish(domain.Event{Type: domain.EventLockAcquired})
	assert.Zero(t, calls)
}
