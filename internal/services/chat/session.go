package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
)

// FallbackErrorMessage is shown when a failed submit carries no better message
const FallbackErrorMessage = "Terjadi kesalahan saat memproses pertanyaan"

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = errors.New("question exceeds 1000 characters")
	ErrBusy            = errors.New("a question is already being answered")
	// ErrDiscarded is returned when the owning page went away before the answer arrived
	ErrDiscarded = errors.New("session closed before the response arrived")
)

// State of the chat submission state machine
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	// StateFailed is momentary: observers see it once, then the session returns to idle
	StateFailed State = "failed"
)

// Input is the per-submit snapshot of the chat form
type Input struct {
	Question          string
	DocumentID        string
	IncludeGuidelines bool
}

// Snapshot is an immutable copy of the session for rendering
type Snapshot struct {
	State    State
	Messages []models.Message
}

// Session is the chat conversation of one page. Messages are append-only.
type Session struct {
	backend  interfaces.BackendService
	logger   arbor.ILogger
	validate *validator.Validate
	now      func() time.Time

	mu        sync.Mutex
	state     State
	messages  []models.Message
	alive     func() bool
	observers []func(Snapshot)
}

// NewSession creates an idle session with no messages
func NewSession(backend interfaces.BackendService, logger arbor.ILogger) *Session {
	return &Session{
		backend:  backend,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
		state:    StateIdle,
		alive:    func() bool { return true },
	}
}

// SetLiveness installs the check consulted before a response is applied
func (s *Session) SetLiveness(alive func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = alive
}

// OnChange registers an observer called after every state transition, outside the session lock
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a copy of the current state and messages
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	messages := make([]models.Message, len(s.messages))
	copy(messages, s.messages)
	return Snapshot{State: s.state, Messages: messages}
}

func (s *Session) notify(snap Snapshot, observers []func(Snapshot)) {
	for _, fn := range observers {
		fn(snap)
	}
}

// transition applies fn under the lock, then notifies observers with the result
func (s *Session) transition(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	observers := append([]func(Snapshot){}, s.observers...)
	s.mu.Unlock()

	s.notify(snap, observers)
}

// Submit sends one question. The user message is appended before the request as pending and
// ends as sent or failed; an assistant message is appended only on success.
func (s *Session) Submit(ctx context.Context, in Input) (*models.ChatResponse, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, ErrEmptyQuestion
	}

	req := models.ChatRequest{
		Question:          in.Question,
		DocumentID:        in.DocumentID,
		IncludeGuidelines: in.IncludeGuidelines,
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrQuestionTooLong
	}

	userID := common.NewMessageID()

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = StateSubmitting
	s.messages = append(s.messages, models.Message{
		ID:        userID,
		Role:      models.RoleUser,
		Content:   in.Question,
		Timestamp: s.now(),
		Status:    models.MessageStatusPending,
	})
	snap := s.snapshotLocked()
	observers := append([]func(Snapshot){}, s.observers...)
	s.mu.Unlock()

	s.notify(snap, observers)

	resp, err := s.backend.Chat(ctx, req)

	s.mu.Lock()
	alive := s.alive()
	s.mu.Unlock()
	if !alive {
		s.logger.Debug().Str("message_id", userID).Msg("Chat response discarded, page closed")
		return nil, ErrDiscarded
	}

	if err != nil {
		s.logger.Warn().Err(err).Msg("Chat request failed")
		s.transition(func() {
			s.setStatus(userID, models.MessageStatusFailed)
			s.state = StateFailed
		})
		s.transition(func() {
			s.state = StateIdle
		})
		return nil, err
	}

	s.transition(func() {
		s.setStatus(userID, models.MessageStatusSent)
		processingTime := resp.ProcessingTime
		s.messages = append(s.messages, models.Message{
			ID:             common.NewMessageID(),
			Role:           models.RoleAssistant,
			Content:        resp.Answer,
			Timestamp:      s.now(),
			Sources:        resp.Sources,
			ProcessingTime: &processingTime,
			Status:         models.MessageStatusSent,
		})
		s.state = StateIdle
	})

	s.logger.Debug().
		Int("sources", len(resp.Sources)).
		Float64("processing_time", resp.ProcessingTime).
		Msg("Chat answer received")

	return resp, nil
}

func (s *Session) setStatus(id string, status models.MessageStatus) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = status
			return
		}
	}
}
