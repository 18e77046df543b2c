package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
)

// Service implements interfaces.BackendService over the REST API
type Service struct {
	client *httpclient.Client
	logger arbor.ILogger
}

// NewService creates a typed backend client
func NewService(client *httpclient.Client, logger arbor.ILogger) interfaces.BackendService {
	return &Service{
		client: client,
		logger: logger,
	}
}

func (s *Service) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := s.client.Send(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) Stats(ctx context.Context) (*models.SystemStatsResponse, error) {
	var resp models.SystemStatsResponse
	if err := s.client.Send(ctx, http.MethodGet, "/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) ListDocuments(ctx context.Context) (*models.DocumentsResponse, error) {
	var resp models.DocumentsResponse
	if err := s.client.Send(ctx, http.MethodGet, "/documents", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id string) (*models.DeleteResponse, error) {
	var resp models.DeleteResponse
	if err := s.client.Send(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("document_id", id).
		Int("deleted_chunks", resp.DeletedChunks).
		Msg("Document deleted")

	return &resp, nil
}

func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	body, err := httpclient.JSONBody(req)
	if err != nil {
		return nil, err
	}

	var resp models.ChatResponse
	if err := s.client.Send(ctx, http.MethodPost, "/chat", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) UploadGuidelines(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error) {
	return s.upload(ctx, models.UploadKindGuidelines, file)
}

func (s *Service) UploadThesis(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error) {
	return s.upload(ctx, models.UploadKindThesis, file)
}

func (s *Service) upload(ctx context.Context, kind models.UploadKind, file models.UploadFile) (*models.UploadResponse, error) {
	body, err := httpclient.MultipartBody("file", file.Name, file.ContentType, file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	var resp models.UploadResponse
	if err := s.client.Send(ctx, http.MethodPost, "/upload/"+string(kind), body, &resp); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Str("file", file.Name).
		Str("document_id", resp.DocumentID).
		Msg("Document uploaded")

	return &resp, nil
}
