package events

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/interfaces"
)

// NewLoggerSubscriber creates an event handler that logs all events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logEvent := logger.Info().Str("event_type", string(event.Type))

		if payload, ok := event.Payload.(interfaces.DocumentsChangedPayload); ok {
			logEvent = logEvent.Str("reason", payload.Reason)
			if payload.DocumentID != "" {
				logEvent = logEvent.Str("document_id", payload.DocumentID)
			}
		}

		logEvent.Msg("Event published")
		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	for _, eventType := range []interfaces.EventType{interfaces.EventDocumentsChanged} {
		if _, err := eventService.Subscribe(eventType, subscriber); err != nil {
			return err
		}
	}

	return nil
}
