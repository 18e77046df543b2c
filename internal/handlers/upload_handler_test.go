package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/upload"
)

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, "BAB I PENDAHULUAN")
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func uploadRouter(h *UploadHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/upload/{kind}", h.UploadHandler)
	return router
}

func decodeUploadResult(t *testing.T, rec *httptest.ResponseRecorder) UploadResult {
	t.Helper()
	var result UploadResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	return result
}

func TestUploadHandler_Success(t *testing.T) {
	d := newTestDeps(t)
	chunks := 42
	d.backend.On("UploadGuidelines", mock.Anything, mock.MatchedBy(func(f models.UploadFile) bool {
		return f.Name == "pedoman.pdf" && f.ContentType == "application/pdf"
	})).Return(&models.UploadResponse{Success: true, Message: "Pedoman berhasil diupload", DocumentID: "doc-1", ChunksCreated: &chunks}, nil)
	d.backend.On("ListDocuments", mock.Anything).Return(sampleListing(), nil).Maybe()

	router := uploadRouter(NewUploadHandler(d.registry, d.uploads, d.logger))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/guidelines", "pedoman.pdf", "application/pdf", samplePDF(t, 3), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeUploadResult(t, rec)
	assert.True(t, result.Success)
	assert.Equal(t, "Pedoman berhasil diupload", result.Message)
	assert.Equal(t, "doc-1", result.DocumentID)
	require.NotNil(t, result.ChunksCreated)
	assert.Equal(t, 42, *result.ChunksCreated)
	assert.Equal(t, 3, result.Pages)
}

func TestUploadHandler_RejectsNonPDF(t *testing.T) {
	d := newTestDeps(t)
	router := uploadRouter(NewUploadHandler(d.registry, d.uploads, d.logger))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/thesis", "notes.txt", "text/plain", []byte("hello"), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httpclient.MessageNotPDF, decodeUploadResult(t, rec).Message)
	d.backend.AssertNotCalled(t, "UploadThesis", mock.Anything, mock.Anything)
}

func TestUploadHandler_UnknownKind(t *testing.T) {
	d := newTestDeps(t)
	router := uploadRouter(NewUploadHandler(d.registry, d.uploads, d.logger))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/slides", "a.pdf", "application/pdf", []byte("%PDF-1.4"), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadHandler_BackendFailure(t *testing.T) {
	d := newTestDeps(t)
	d.backend.On("UploadThesis", mock.Anything, mock.Anything).
		Return(nil, &httpclient.Error{Kind: httpclient.KindRequestFailed, Status: 400, Message: "Permintaan gagal (HTTP 400)", Detail: "PDF tidak berisi teks"})

	router := uploadRouter(NewUploadHandler(d.registry, d.uploads, d.logger))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/thesis", "scan.pdf", "application/pdf", samplePDF(t, 1), nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	result := decodeUploadResult(t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, "PDF tidak berisi teks", result.Message)
}

type busyUploader struct{}

func (busyUploader) Upload(ctx context.Context, viewID string, kind models.UploadKind, file models.UploadFile) (*upload.Result, error) {
	return nil, upload.ErrBusy
}

func TestUploadHandler_Busy(t *testing.T) {
	d := newTestDeps(t)
	router := uploadRouter(NewUploadHandler(busyUploader{}, d.uploads, d.logger))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/thesis", "a.pdf", "application/pdf", []byte("%PDF-1.4"), map[string]string{"view": "view_1"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, MessageUploadBusy, decodeUploadResult(t, rec).Message)
}

func TestUploadHandler_TooLarge(t *testing.T) {
	d := newTestDeps(t)
	small := upload.NewService(d.backend, d.documents, 1024, d.logger)
	router := uploadRouter(NewUploadHandler(d.registry, small, d.logger))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/upload/thesis", "big.pdf", "application/pdf", make([]byte, 4096), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, small.SizeLimitMessage(), decodeUploadResult(t, rec).Message)
	d.backend.AssertNotCalled(t, "UploadThesis", mock.Anything, mock.Anything)
}

func TestUploadHandler_RequiresPost(t *testing.T) {
	d := newTestDeps(t)
	router := uploadRouter(NewUploadHandler(d.registry, d.uploads, d.logger))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload/thesis", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
