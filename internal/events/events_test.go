package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rest-template/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type testPayload struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}

	payload := testPayload{ID: uuid.New(), Email: "ada@example.com"}
	ctx := logger.WithTraceID(context.Background(), "trace-123456")

	event, err := NewEvent(ctx, TypeUserCreated, payload)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeUserCreated, event.Type)
	assert.Equal(t, "trace-123456", event.TraceID)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventUnserializablePayload(t *testing.T) {
	_, err := NewEvent(context.Background(), "bad", make(chan int))
	assert.Error(t, err)
}

// MockEventHandler records the events it receives. It is safe for concurrent use.
type MockEventHandler struct {
	mu           sync.Mutex
	Events       []*Event
	TraceIDs     []string
	HandlerError error
}

// HandleEvent implements EventHandler.
func (m *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	m.TraceIDs = append(m.TraceIDs, logger.TraceIDFromContext(ctx))
	return m.HandlerError
}

// Count returns how many events were handled.
func (m *MockEventHandler) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
