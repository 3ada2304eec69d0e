package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler reacts to a published event. An error aborts delivery to the
// remaining handlers and propagates to the publisher.
type Handler func(ctx context.Context, evt Event) error

// Bus is the publish/subscribe contract injected into services.
type Bus interface {
	Subscribe(t Type, h Handler)
	Publish(ctx context.Context, t Type, payload any) error
}

// MemoryBus delivers events synchronously and in-process. Handlers run in
// registration order; wildcard subscribers run after type-specific ones.
// There is no persistence or replay.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewMemoryBus constructs an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers h for events of type t. Pass Any to receive every
// event.
func (b *MemoryBus) Subscribe(t Type, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers the event to all subscribers for its type, then to
// wildcard subscribers. The first handler error stops delivery and is
// returned to the caller.
func (b *MemoryBus) Publish(ctx context.Context, t Type, payload any) error {
	evt := Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[t])+len(b.handlers[Any]))
	handlers = append(handlers, b.handlers[t]...)
	handlers = append(handlers, b.handlers[Any]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}
