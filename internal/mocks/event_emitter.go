package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/rest-template/internal/events"
)

// EventEmitter records emitted events. It is safe for concurrent use.
type EventEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	Err    error
}

// EmitEvent implements events.EventEmitter.
func (m *EventEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Types returns the types of the recorded events in emission order.
func (m *EventEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Events returns a copy of the recorded events.
func (m *EventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}
