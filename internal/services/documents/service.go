package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
)

// FallbackDeleteMessage is shown when a failed delete carries no better message
const FallbackDeleteMessage = "Gagal menghapus dokumen"

// ErrConfirmationRequired is returned by Delete until the user has confirmed
var ErrConfirmationRequired = errors.New("delete requires confirmation")

// ConfirmMessage is the prompt shown before deleting a document
func ConfirmMessage(name string) string {
	return fmt.Sprintf("Apakah Anda yakin ingin menghapus \"%s\"?", name)
}

// Service lists and deletes indexed documents through the shared cache
type Service struct {
	backend interfaces.BackendService
	cache   interfaces.CacheService
	events  interfaces.EventService
	logger  arbor.ILogger
}

// NewService creates the documents service. events may be nil.
func NewService(backend interfaces.BackendService, cache interfaces.CacheService, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		backend: backend,
		cache:   cache,
		events:  events,
		logger:  logger,
	}
}

// List returns the document listing, served from the cache while fresh
func (s *Service) List(ctx context.Context) (*models.DocumentsResponse, error) {
	return s.fetch(ctx, false)
}

// Refresh always refetches the listing
func (s *Service) Refresh(ctx context.Context) (*models.DocumentsResponse, error) {
	return s.fetch(ctx, true)
}

// Cached returns the last successfully fetched listing without any network call
func (s *Service) Cached() (*models.DocumentsResponse, bool) {
	return cache.Peek[*models.DocumentsResponse](s.cache, interfaces.CacheKeyDocuments)
}

func (s *Service) fetch(ctx context.Context, force bool) (*models.DocumentsResponse, error) {
	resp, err := cache.Fetch(ctx, s.cache, interfaces.CacheKeyDocuments, force, s.backend.ListDocuments)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return resp, nil
}

// Delete removes a document. Without confirmed nothing is sent and ErrConfirmationRequired is returned.
// On success the documents and stats cache entries are invalidated and documents_changed is delivered
// to every subscriber before Delete returns; on failure the cache is left untouched.
func (s *Service) Delete(ctx context.Context, id string, confirmed bool, sourceView string) (*models.DeleteResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	resp, err := s.backend.DeleteDocument(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("document_id", id).Msg("Failed to delete document")
		return nil, fmt.Errorf("failed to delete document %s: %w", id, err)
	}

	s.cache.Invalidate(interfaces.CacheKeyDocuments, interfaces.CacheKeyStats)
	s.publishChanged(ctx, "delete", id, sourceView)

	return resp, nil
}

// DocumentsChanged invalidates the cached listing and stats and notifies subscribers.
// Upload uses this after a successful upload.
func (s *Service) DocumentsChanged(ctx context.Context, reason, documentID, sourceView string) {
	s.cache.Invalidate(interfaces.CacheKeyDocuments, interfaces.CacheKeyStats)
	s.publishChanged(ctx, reason, documentID, sourceView)
}

func (s *Service) publishChanged(ctx context.Context, reason, documentID, sourceView string) {
	if s.events == nil {
		return
	}
	event := interfaces.Event{
		Type: interfaces.EventDocumentsChanged,
		Payload: interfaces.DocumentsChangedPayload{
			Reason:     reason,
			DocumentID: documentID,
			SourceView: sourceView,
		},
	}
	// Subscribers refetch before this returns, so the caller's view is current when it reports success
	if err := s.events.PublishSync(context.WithoutCancel(ctx), event); err != nil {
		common.GetLogger().Warn().Err(err).Msg("Failed to publish documents_changed")
	}
}
