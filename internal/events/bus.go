// Package events provides the in-process event bus used to broadcast run
// lifecycle and maintenance events to SSE/WebSocket subscribers.
package events

import (
	"sync"
	"time"
)

// EventType identifies a class of events on the bus.
type EventType string

// Event types emitted by the lab.
const (
	RunQueued      EventType = "RunQueued"
	RunStarted     EventType = "RunStarted"
	RunProgress    EventType = "RunProgress"
	RunCompleted   EventType = "RunCompleted"
	RunFailed      EventType = "RunFailed"
	BackupFinished EventType = "BackupFinished"
	SweepFinished  EventType = "SweepFinished"
)

// AllEventTypes lists every event type for subscribe-to-everything consumers.
var AllEventTypes = []EventType{
	RunQueued,
	RunStarted,
	RunProgress,
	RunCompleted,
	RunFailed,
	BackupFinished,
	SweepFinished,
}

// Event is a single bus message.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Handler receives events for a subscribed type. Handlers must not block;
// slow consumers should buffer internally and drop.
type Handler func(event *Event)

// Bus is a simple fan-out event bus. Subscriptions can be removed, so
// short-lived consumers such as stream connections do not accumulate.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventType]map[uint64]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType]map[uint64]Handler)}
}

// Subscribe registers a handler for an event type and returns a function
// that removes it. Calling the returned function more than once is safe.
func (b *Bus) Subscribe(t EventType, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[uint64]Handler)
	}
	b.handlers[t][id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers[t], id)
		b.mu.Unlock()
	}
}

// Emit delivers an event synchronously to all handlers for its type.
func (b *Bus) Emit(t EventType, data interface{}) {
	event := &Event{Type: t, Timestamp: time.Now().UTC(), Data: data}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[t]))
	for _, h := range b.handlers[t] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
