package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/backend"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/services/documents"
	"github.com/ternarybob/pedoman/internal/services/events"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
	"github.com/ternarybob/pedoman/internal/templates"
	"github.com/ternarybob/pedoman/internal/views"
)

type testDeps struct {
	config    *common.Config
	backend   *backend.MockService
	cache     *cache.Service
	documents *documents.Service
	uploads   *upload.Service
	renderer  *templates.Renderer
	registry  *views.Registry
	logger    arbor.ILogger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	logger := arbor.NewLogger()
	config := common.NewDefaultConfig()
	mockBackend := new(backend.MockService)
	c := cache.NewService(time.Hour, logger)
	bus := events.NewService(logger)
	docs := documents.NewService(mockBackend, c, bus, logger)
	uploads := upload.NewService(mockBackend, docs, config.MaxUploadBytes(), logger)
	renderer, err := templates.NewRenderer("", logger)
	require.NoError(t, err)

	registry, err := views.NewRegistry(views.Deps{
		Backend:   mockBackend,
		Cache:     c,
		Events:    bus,
		Documents: docs,
		Uploads:   uploads,
		Renderer:  renderer,
		Intervals: map[status.Target]time.Duration{status.TargetHealth: time.Hour, status.TargetStats: time.Hour},
		MaxSizeMB: config.Upload.MaxSizeMB,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	return &testDeps{
		config:    config,
		backend:   mockBackend,
		cache:     c,
		documents: docs,
		uploads:   uploads,
		renderer:  renderer,
		registry:  registry,
		logger:    logger,
	}
}

func sampleListing() *models.DocumentsResponse {
	return &models.DocumentsResponse{
		Documents: []models.Document{
			{ID: "doc-1", Type: models.DocumentTypeGuidelines, Name: "pedoman.pdf", ChunksCount: 120, Namespace: "guidelines"},
			{ID: "doc-2", Type: models.DocumentTypeStudentThesis, Name: "skripsi-andi.pdf", ChunksCount: 12, Namespace: "student_theses"},
		},
		TotalDocuments: 2,
		TotalChunks:    132,
	}
}

// multipartRequest builds a POST with a "file" part declared as contentType
func multipartRequest(t *testing.T, url, filename, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
