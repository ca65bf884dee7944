package canvasbackend

import "sync"

// EventQueue is an unbounded FIFO of input events with one producer (the
// host's input callback) and one consumer (the framework's poll loop).
// Push and Pop are each atomic, so reentrant or concurrent delivery from a
// host is safe.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	head   int
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends events to the tail, in order.
func (q *EventQueue) Push(events ...Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

// Pop removes and returns the oldest event. It never blocks: an empty queue
// returns (NoEvent, false).
func (q *EventQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.events) {
		return NoEvent, false
	}
	ev := q.events[q.head]
	q.events[q.head] = Event{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.events) {
		q.events = q.events[:0]
		q.head = 0
	} else if q.head >= 64 && q.head*2 >= len(q.events) {
		n := copy(q.events, q.events[q.head:])
		q.events = q.events[:n]
		q.head = 0
	}
	return ev, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) - q.head
}
