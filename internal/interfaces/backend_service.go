package interfaces

import (
	"context"

	"github.com/ternarybob/pedoman/internal/models"
)

// BackendService is the typed contract of the RAG backend REST API (/api/v1).
// Every error returned is an *httpclient.Error.
type BackendService interface {
	// Health calls GET /health
	Health(ctx context.Context) (*models.HealthResponse, error)

	// Stats calls GET /stats
	Stats(ctx context.Context) (*models.SystemStatsResponse, error)

	// ListDocuments calls GET /documents
	ListDocuments(ctx context.Context) (*models.DocumentsResponse, error)

	// DeleteDocument calls DELETE /documents/{id}
	DeleteDocument(ctx context.Context, id string) (*models.DeleteResponse, error)

	// Chat calls POST /chat
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	// UploadGuidelines calls POST /upload/guidelines (multipart field "file")
	UploadGuidelines(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error)

	// UploadThesis calls POST /upload/thesis (multipart field "file")
	UploadThesis(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error)
}
