package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/interfaces"
)

type subscription struct {
	id      string
	handler interfaces.EventHandler
}

// Service implements EventService interface with pub/sub pattern
type Service struct {
	subscribers map[interfaces.EventType][]subscription
	mu          sync.RWMutex
	logger      arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		subscribers: make(map[interfaces.EventType][]subscription),
		logger:      logger,
	}
}

// Subscribe registers a handler for an event type
func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) (string, error) {
	if handler == nil {
		return "", fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.subscribers[eventType] = append(s.subscribers[eventType], subscription{id: id, handler: handler})

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscriber_count", len(s.subscribers[eventType])).
		Msg("Event handler subscribed")

	return id, nil
}

// Unsubscribe removes a handler from an event type
func (s *Service) Unsubscribe(eventType interfaces.EventType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subscribers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			remaining := make([]subscription, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			s.subscribers[eventType] = append(remaining, subs[i+1:]...)
			s.logger.Debug().
				Str("event_type", string(eventType)).
				Msg("Event handler unsubscribed")
			return nil
		}
	}

	return fmt.Errorf("handler not found for event type: %s", eventType)
}

func (s *Service) handlers(eventType interfaces.EventType) []subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscribers[eventType]
}

// Publish sends an event to all subscribers asynchronously
func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	subs := s.handlers(event.Type)
	if len(subs) == 0 {
		s.logger.Debug().
			Str("event_type", string(event.Type)).
			Msg("No subscribers for event")
		return nil
	}

	s.logger.Debug().
		Str("event_type", string(event.Type)).
		Int("subscriber_count", len(subs)).
		Msg("Publishing event")

	for _, sub := range subs {
		h := sub.handler
		common.SafeGo(s.logger, "event:"+string(event.Type), func() {
			if err := h(ctx, event); err != nil {
				s.logger.Error().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
			}
		})
	}

	return nil
}

// PublishSync sends an event to all subscribers and waits for them
func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	subs := s.handlers(event.Type)
	if len(subs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(subs))

	for _, sub := range subs {
		wg.Add(1)
		go func(h interfaces.EventHandler) {
			defer wg.Done()
			defer common.RecoverAndLog(s.logger, "event:"+string(event.Type))
			if err := h(ctx, event); err != nil {
				s.logger.Error().
					Err(err).
					Str("event_type", string(event.Type)).
					Msg("Event handler failed")
				errChan <- err
			}
		}(sub.handler)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("event handlers failed: %d errors", len(errs))
	}

	return nil
}

// Close shuts down the event service
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = make(map[interfaces.EventType][]subscription)
	s.logger.Debug().Msg("Event service closed")

	return nil
}
