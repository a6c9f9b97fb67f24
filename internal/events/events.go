package events

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/platform/logger"
)

// Event types published by the services.
const (
	TypeUserCreated     = "user.created"
	TypeUserUpdated     = "user.updated"
	TypeUserDeleted     = "user.deleted"
	TypeProductCreated  = "product.created"
	TypeProductUpdated  = "product.updated"
	TypeProductDeleted  = "product.deleted"
	TypeProductStockLow = "product.stock_low"
)

// Event is a domain event published after a successful state change.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	TraceID   string          `json:"trace_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent creates an Event of eventType carrying payload serialized as JSON.
// The trace ID of ctx, if any, is copied onto the event.
func NewEvent(ctx context.Context, eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		TraceID:   logger.TraceIDFromContext(ctx),
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter publishes events to handlers without the publisher knowing them.
type EventEmitter interface {
	// EmitEvent publishes the given event.
	EmitEvent(ctx context.Context, event *Event) error
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NoopEmitter) EmitEvent(context.Context, *Event) error { return nil }
