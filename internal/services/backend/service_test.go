package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
)

func newTestService(t *testing.T, mux *http.ServeMux) interfaces.BackendService {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := arbor.NewLogger()
	client, err := httpclient.NewClient(server.URL, 2*time.Second, logger)
	require.NoError(t, err)
	return NewService(client, logger)
}

func TestChat_RequestShape(t *testing.T) {
	var raw map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"answer":"Gunakan APA edisi 7.","sources":[{"source":"Pedoman.pdf","page":34,"similarity_score":0.87}],"processing_time":1.2,"timestamp":"2024-05-01T10:00:00"}`)
	})
	service := newTestService(t, mux)

	resp, err := service.Chat(context.Background(), models.ChatRequest{Question: "format daftar pustaka", IncludeGuidelines: true})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"question": "format daftar pustaka", "include_guidelines": true}, raw)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Pedoman.pdf - Hal. 34 (87%)", resp.Sources[0].Line())
}

func TestListAndDeleteDocuments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"documents":[{"id":"doc-42","type":"guidelines","name":"Pedoman.pdf","chunks_count":12,"namespace":"pedoman"}],"total_documents":1,"total_chunks":12}`)
	})
	mux.HandleFunc("/api/v1/documents/doc-42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		fmt.Fprint(w, `{"success":true,"message":"Dokumen berhasil dihapus","deleted_chunks":12}`)
	})
	service := newTestService(t, mux)

	docs, err := service.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, docs.GuidelineCount())
	assert.Equal(t, 12, docs.TotalChunks)

	deleted, err := service.DeleteDocument(context.Background(), "doc-42")
	require.NoError(t, err)
	assert.True(t, deleted.Success)
	assert.Equal(t, 12, deleted.DeletedChunks)
}

func TestUploadThesis_Multipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/upload/thesis", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "skripsi.pdf", header.Filename)
		assert.Equal(t, []byte("%PDF-1.7"), data)
		fmt.Fprint(w, `{"success":true,"message":"Skripsi berhasil diupload","document_id":"doc-9","chunks_created":31}`)
	})
	service := newTestService(t, mux)

	resp, err := service.UploadThesis(context.Background(), models.UploadFile{Name: "skripsi.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7")})
	require.NoError(t, err)
	assert.Equal(t, "doc-9", resp.DocumentID)
	require.NotNil(t, resp.ChunksCreated)
	assert.Equal(t, 31, *resp.ChunksCreated)
}

func TestHealthAndStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"healthy","timestamp":"2024-05-01T10:00:00Z","version":"1.0.0","services":{"vector_store":true,"gemini":true}}`)
	})
	mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	service := newTestService(t, mux)

	health, err := service.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"vector_store", "gemini"}, health.Services.Keys())

	_, err = service.Stats(context.Background())
	assert.True(t, httpclient.IsKind(err, httpclient.KindServerError))
}
