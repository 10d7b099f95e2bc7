package eventbus

import (
	"errors"
	"sync"
)

// Event is something the engine reports while a goal runs.
type Event interface {
	isEvent()
}

// PipelineEvent is one step taken by a pipeline actor. Status is one of
// "ok", "fail", "warn" or "info".
type PipelineEvent struct {
	Actor  string
	Name   string
	Detail string
	Status string
}

func (PipelineEvent) isEvent() {}

// IterationEvent marks the start of iteration N of at most Total.
type IterationEvent struct {
	N     int
	Total int
}

func (IterationEvent) isEvent() {}

var (
	ErrFull   = errors.New("event channel is full")
	ErrClosed = errors.New("event bus is closed")
)

// EventBus carries events from the engine goroutine to the foreground
// renderer. Publishing never blocks.
type EventBus struct {
	mu      sync.Mutex
	events  chan Event
	closed  bool
	dropped int
}

func NewEventBus(size int) *EventBus {
	return &EventBus{events: make(chan Event, size)}
}

// Publish enqueues e, failing when the buffer is full or the bus is closed.
func (eb *EventBus) Publish(e Event) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return ErrClosed
	}
	select {
	case eb.events <- e:
		return nil
	default:
		eb.dropped++
		return ErrFull
	}
}

// Events is drained by the renderer until it is closed.
func (eb *EventBus) Events() <-chan Event {
	return eb.events
}

// Dropped counts events rejected because the buffer was full.
func (eb *EventBus) Dropped() int {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	return eb.dropped
}

// Close stops publishing and lets readers drain what is buffered. It is safe
// to call more than once.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if !eb.closed {
		eb.closed = true
		close(eb.events)
	}
}
