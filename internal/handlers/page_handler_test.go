package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/views"
)

func servePage(t *testing.T, d *testDeps, page views.Page) *goquery.Document {
	t.Helper()
	handler := NewPageHandler(d.renderer, d.documents, d.cache, d.config, d.logger)

	rec := httptest.NewRecorder()
	handler.ServePage(page)(rec, httptest.NewRequest(http.MethodGet, "/"+string(page), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestServePage_Documents(t *testing.T) {
	d := newTestDeps(t)
	d.backend.On("ListDocuments", mock.Anything).Return(sampleListing(), nil)

	doc := servePage(t, d, views.PageDocuments)

	assert.Equal(t, "2", strings.TrimSpace(doc.Find("#total-documents").Text()))
	assert.Equal(t, "132", strings.TrimSpace(doc.Find("#total-chunks").Text()))
	assert.Equal(t, "1", strings.TrimSpace(doc.Find("#guideline-count").Text()))
	assert.Equal(t, 2, doc.Find(".document-row").Length())
	assert.Equal(t, "documents", doc.Find("body").AttrOr("data-page", ""))
}

func TestServePage_DocumentsError(t *testing.T) {
	d := newTestDeps(t)
	d.backend.On("ListDocuments", mock.Anything).
		Return(nil, &httpclient.Error{Kind: httpclient.KindServerError, Status: 500, Message: httpclient.MessageServerError})

	doc := servePage(t, d, views.PageDocuments)

	assert.Equal(t, 1, doc.Find("#documents-panel .error-card").Length())
	assert.Contains(t, doc.Find(".error-card").Text(), httpclient.MessageServerError)
}

func TestServePage_ChatListsTheses(t *testing.T) {
	d := newTestDeps(t)
	d.backend.On("ListDocuments", mock.Anything).Return(sampleListing(), nil)

	doc := servePage(t, d, views.PageChat)

	options := doc.Find("#chat-documents option")
	require.Equal(t, 2, options.Length())
	assert.Equal(t, "doc-2", options.Eq(1).AttrOr("value", ""))
	_, checked := doc.Find("#include-guidelines").Attr("checked")
	assert.True(t, checked)
}

func TestServePage_ChatWithoutBackend(t *testing.T) {
	d := newTestDeps(t)
	d.backend.On("ListDocuments", mock.Anything).Return(nil, errors.New("connection refused"))

	doc := servePage(t, d, views.PageChat)

	assert.Equal(t, 1, doc.Find("#chat-documents option").Length())
	assert.Equal(t, 1, doc.Find("#chat-form").Length())
}

func TestServePage_StatsFromCache(t *testing.T) {
	d := newTestDeps(t)
	_, err := cache.Fetch(context.Background(), d.cache, interfaces.CacheKeyHealth, true, func(ctx context.Context) (*models.HealthResponse, error) {
		return &models.HealthResponse{Status: models.HealthStatusHealthy, Version: "2.1.0"}, nil
	})
	require.NoError(t, err)

	doc := servePage(t, d, views.PageStats)

	assert.Equal(t, "2.1.0", strings.TrimSpace(doc.Find(".health-version").Text()))
	assert.Contains(t, doc.Find("#stats-panel").Text(), "Memuat")
	d.backend.AssertNotCalled(t, "Health", mock.Anything)
}

func TestServePage_UploadShowsLimit(t *testing.T) {
	d := newTestDeps(t)

	doc := servePage(t, d, views.PageUpload)

	assert.Contains(t, doc.Find(".dropzone .hint").Text(), "50MB")
	assert.Equal(t, 2, doc.Find(".upload-channel").Length())
}

func TestStaticFileHandler(t *testing.T) {
	d := newTestDeps(t)
	handler := NewPageHandler(d.renderer, d.documents, d.cache, d.config, d.logger)

	server := httptest.NewServer(handler.StaticFileHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "WebSocket")
}
