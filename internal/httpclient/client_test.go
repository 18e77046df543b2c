package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/", timeout, arbor.NewLogger())
	require.NoError(t, err)
	return client
}

func TestSend_JSONRoundTrip(t *testing.T) {
	var gotPath, gotMethod, gotContentType string
	var gotBody map[string]interface{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"answer":"ok"}`)
	}, time.Second)

	body, err := JSONBody(map[string]interface{}{"question": "apa itu abstrak?"})
	require.NoError(t, err)

	var out struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, client.Send(context.Background(), http.MethodPost, "/chat", body, &out))

	assert.Equal(t, "/api/v1/chat", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "apa itu abstrak?", gotBody["question"])
	assert.Equal(t, "ok", out.Answer)
}

func TestSend_MultipartBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "/api/v1/upload/thesis", r.URL.Path)
		assert.Equal(t, "skripsi.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 test", string(data))
		fmt.Fprint(w, `{"success":true,"message":"ok"}`)
	}, time.Second)

	body, err := MultipartBody("file", "skripsi.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, client.Send(context.Background(), http.MethodPost, "/upload/thesis", body, nil))
}

func TestSend_StatusMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		kind        Kind
		userMessage string
	}{
		{name: "404 with detail", status: 404, body: `{"detail":"Dokumen tidak ditemukan"}`, kind: KindNotFound, userMessage: "Dokumen tidak ditemukan"},
		{name: "404 without detail", status: 404, body: ``, kind: KindNotFound, userMessage: MessageNotFound},
		{name: "500 with detail", status: 500, body: `{"detail":"Failed to delete document: namespace locked"}`, kind: KindServerError, userMessage: "Failed to delete document: namespace locked"},
		{name: "503 without detail", status: 503, body: ``, kind: KindServerError, userMessage: MessageServerError},
		{name: "400 with detail", status: 400, body: `{"detail":"Hanya file PDF yang diperbolehkan"}`, kind: KindRequestFailed, userMessage: "Hanya file PDF yang diperbolehkan"},
		{name: "422 list detail", status: 422, body: `{"detail":[{"loc":["body","question"],"msg":"field required"}]}`, kind: KindRequestFailed, userMessage: "field required"},
		{name: "400 without detail", status: 400, body: `oops`, kind: KindRequestFailed, userMessage: "Permintaan gagal (HTTP 400)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, time.Second)

			err := client.Send(context.Background(), http.MethodGet, "/documents", nil, nil)
			require.Error(t, err)

			var clientErr *Error
			require.True(t, errors.As(err, &clientErr))
			assert.Equal(t, tt.kind, clientErr.Kind)
			assert.Equal(t, tt.status, clientErr.Status)
			assert.True(t, IsKind(err, tt.kind))
			assert.Equal(t, tt.userMessage, UserMessage(err, "fallback"))
		})
	}
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	err := client.Send(context.Background(), http.MethodGet, "/health", nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout))
	assert.Equal(t, MessageTimeout, UserMessage(err, "fallback"))
}

func TestSend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url, time.Second, arbor.NewLogger())
	require.NoError(t, err)

	err = client.Send(context.Background(), http.MethodGet, "/health", nil, nil)
	require.Error(t, err)

	var clientErr *Error
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, KindRequestFailed, clientErr.Kind)
	assert.Equal(t, 0, clientErr.Status)
	assert.Equal(t, MessageUnreachable, UserMessage(err, "fallback"))
}

func TestSend_SingleAttempt(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}, time.Second)

	err := client.Send(context.Background(), http.MethodGet, "/stats", nil, nil)
	assert.True(t, IsKind(err, KindServerError))
	assert.Equal(t, 1, calls)
}

func TestUserMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Gagal menghapus dokumen", UserMessage(errors.New("plain"), "Gagal menghapus dokumen"))
	assert.Equal(t, MessageNotPDF, UserMessage(fmt.Errorf("wrapped: %w", NewValidationError(MessageNotPDF)), "x"))
	assert.False(t, IsKind(errors.New("plain"), KindTimeout))
}
