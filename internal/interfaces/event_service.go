package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventDocumentsChanged is published after a successful upload or delete.
	// Payload: DocumentsChangedPayload
	EventDocumentsChanged EventType = "documents_changed"
)

// DocumentsChangedPayload describes what changed the document set
type DocumentsChangedPayload struct {
	Reason     string // "upload" or "delete"
	DocumentID string
	SourceView string // view that caused the change, may be empty (CLI)
}

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages pub/sub event bus
type EventService interface {
	// Subscribe registers handler and returns the id used to unsubscribe it
	Subscribe(eventType EventType, handler EventHandler) (string, error)

	// Unsubscribe removes the handler registered under id
	Unsubscribe(eventType EventType, id string) error

	// Publish an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
