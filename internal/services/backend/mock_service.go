package backend

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
)

// MockService is a testify mock of interfaces.BackendService for controller tests
type MockService struct {
	mock.Mock
}

var _ interfaces.BackendService = (*MockService)(nil)

func (m *MockService) Health(ctx context.Context) (*models.HealthResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.HealthResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Stats(ctx context.Context) (*models.SystemStatsResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.SystemStatsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) ListDocuments(ctx context.Context) (*models.DocumentsResponse, error) {
	args := m.Called(ctx)
	if resp, ok := args.Get(0).(*models.DocumentsResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) DeleteDocument(ctx context.Context, id string) (*models.DeleteResponse, error) {
	args := m.Called(ctx, id)
	if resp, ok := args.Get(0).(*models.DeleteResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.ChatResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) UploadGuidelines(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error) {
	args := m.Called(ctx, file)
	if resp, ok := args.Get(0).(*models.UploadResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) UploadThesis(ctx context.Context, file models.UploadFile) (*models.UploadResponse, error) {
	args := m.Called(ctx, file)
	if resp, ok := args.Get(0).(*models.UploadResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
