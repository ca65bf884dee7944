package canvasbackend

import (
	"fmt"
	"log/slog"
	"sync"
)

// EventBridge turns host-pushed key notifications into a pollable queue.
// The host side calls Handle (through the listener registered by Attach);
// the framework side calls Poll.
type EventBridge struct {
	queue     *EventQueue
	namedKeys bool
	logger    *slog.Logger

	mu      sync.Mutex
	release func()
}

// NewEventBridge creates a bridge with an empty queue. When namedKeys is
// true, host key names such as "Enter" or "ArrowUp" become EventKey events
// instead of being decomposed character by character.
func NewEventBridge(logger *slog.Logger, namedKeys bool) *EventBridge {
	return &EventBridge{
		queue:     NewEventQueue(),
		namedKeys: namedKeys,
		logger:    loggerOrNop(logger),
	}
}

// Attach registers the bridge's single listener on src.
func (b *EventBridge) Attach(src InputSource) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.release != nil {
		return ErrAlreadyAttached
	}
	release, err := src.OnKeyDown(b.Handle)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListener, err)
	}
	if release == nil {
		release = func() {}
	}
	b.release = release
	return nil
}

// Detach unregisters the listener. Queued events remain pollable.
func (b *EventBridge) Detach() {
	b.mu.Lock()
	release := b.release
	b.release = nil
	b.mu.Unlock()

	if release != nil {
		release()
	}
}

// Handle decomposes one host key event and appends the result to the queue.
// The text payload yields one EventChar per Unicode scalar, in order.
func (b *EventBridge) Handle(ev KeyEvent) {
	if b.namedKeys {
		if k, ok := KeyByName(ev.Key); ok {
			b.queue.Push(KeyPressEvent(k))
			b.logger.Debug("key event queued", "key", ev.Key)
			return
		}
	}

	events := make([]Event, 0, len(ev.Key))
	for _, r := range ev.Key {
		events = append(events, CharEvent(r))
	}
	b.queue.Push(events...)
	b.logger.Debug("key event decomposed", "key", ev.Key, "events", len(events))
}

// Poll removes and returns the oldest event, or (NoEvent, false) if none is
// queued. It never blocks.
func (b *EventBridge) Poll() (Event, bool) {
	return b.queue.Pop()
}

// Pending returns the number of queued events.
func (b *EventBridge) Pending() int {
	return b.queue.Len()
}
