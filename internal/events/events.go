// Package events decouples services from the notification pipeline. Services
// emit NotificationEvents; the worker package registers a handler that turns
// them into persistent jobs.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationEvent represents a request to deliver a notification. It
// carries the job type and its serialized payload without a direct
// dependency on the worker package.
type NotificationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates the notification job type that should be created
	Type string `json:"type"`

	// Payload contains the notification data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *NotificationEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewNotificationEvent creates a NotificationEvent with the given type and
// payload.
func NewNotificationEvent(eventType string, payload interface{}) (*NotificationEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &NotificationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *NotificationEvent) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *NotificationEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *NotificationEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *NotificationEvent) error
}

// EventEmitterFunc adapts a plain function to the EventEmitter interface.
type EventEmitterFunc func(ctx context.Context, event *NotificationEvent) error

// EmitEvent calls f(ctx, event).
func (f EventEmitterFunc) EmitEvent(ctx context.Context, event *NotificationEvent) error {
	return f(ctx, event)
}
