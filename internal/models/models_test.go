package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestChatRequest_OmitsEmptyDocumentID(t *testing.T) {
	body, err := json.Marshal(ChatRequest{Question: "format daftar pustaka", IncludeGuidelines: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"format daftar pustaka","include_guidelines":true}`, string(body))

	body, err = json.Marshal(ChatRequest{Question: "q", DocumentID: "doc-7", IncludeGuidelines: false})
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"q","document_id":"doc-7","include_guidelines":false}`, string(body))
}

func TestSourceLine(t *testing.T) {
	tests := []struct {
		name     string
		source   Source
		expected string
	}{
		{
			name:     "page only",
			source:   Source{Source: "Pedoman.pdf", Page: intPtr(34), SimilarityScore: 0.87},
			expected: "Pedoman.pdf - Hal. 34 (87%)",
		},
		{
			name:     "page and chapter",
			source:   Source{Source: "Pedoman.pdf", Page: intPtr(2), Chapter: strPtr("BAB I"), SimilarityScore: 0.5},
			expected: "Pedoman.pdf - Hal. 2 - BAB I (50%)",
		},
		{
			name:     "no page",
			source:   Source{Source: "skripsi.pdf", SimilarityScore: 0.123},
			expected: "skripsi.pdf (12%)",
		},
		{
			name:     "zero page is omitted",
			source:   Source{Source: "skripsi.pdf", Page: intPtr(0), SimilarityScore: 0.995},
			expected: "skripsi.pdf (100%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.source.Line())
		})
	}
}

func TestChatResponse_DecodeKeepsSourceOrder(t *testing.T) {
	payload := `{
		"answer": "Gunakan format APA.",
		"sources": [
			{"source": "B.pdf", "page": 3, "similarity_score": 0.61},
			{"source": "A.pdf", "page": null, "chapter": "BAB II", "similarity_score": 0.92}
		],
		"processing_time": 1.2,
		"timestamp": "2024-05-01T10:00:00.123456"
	}`

	var resp ChatResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "B.pdf", resp.Sources[0].Source)
	assert.Equal(t, "A.pdf", resp.Sources[1].Source)
	assert.Nil(t, resp.Sources[1].Page)
	assert.Equal(t, "1.20s", FormatProcessingTime(resp.ProcessingTime))
	assert.Equal(t, 2024, resp.Timestamp.Year())
	assert.Equal(t, "2024-05-01T10:00:00.123456", resp.Timestamp.Raw)
}

func TestOrderedPairs_PreservesReceivedOrder(t *testing.T) {
	payload := `{
		"status": "healthy",
		"timestamp": "2024-05-01T10:00:00Z",
		"version": "1.0.0",
		"services": {"vector_store": true, "gemini_api": false, "pdf_processor": true}
	}`

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &health))

	assert.Equal(t, []string{"vector_store", "gemini_api", "pdf_processor"}, health.Services.Keys())
	up, ok := health.Services.Get("gemini_api")
	assert.True(t, ok)
	assert.False(t, up)
	assert.True(t, health.IsHealthy())

	out, err := json.Marshal(health.Services)
	require.NoError(t, err)
	assert.Equal(t, `{"vector_store":true,"gemini_api":false,"pdf_processor":true}`, string(out))
}

func TestSystemStats_Derived(t *testing.T) {
	payload := `{
		"vector_store": {
			"total_documents": 3,
			"namespace_distribution": {"skripsi_mahasiswa_doc1": 40, "pedoman": 120, "skripsi_mahasiswa_doc2": 60},
			"collection_name": "pedoman_skripsi"
		},
		"gemini_connection": true,
		"available_namespaces": ["pedoman"],
		"status": "operational"
	}`

	var stats SystemStatsResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &stats))

	assert.Equal(t, 220, stats.TotalChunks())
	assert.Equal(t, 120, stats.MaxNamespaceCount())
	assert.Equal(t, "skripsi_mahasiswa_doc1", stats.VectorStore.NamespaceDistribution[0].Key)
	assert.InDelta(t, 50.0, BarPercent(60, stats.MaxNamespaceCount()), 0.001)
	assert.Equal(t, 0.0, BarPercent(10, 0))
}

func TestDocumentsResponse_Derived(t *testing.T) {
	resp := &DocumentsResponse{
		Documents: []Document{
			{ID: "g1", Type: DocumentTypeGuidelines, Name: "Pedoman.pdf", ChunksCount: 12, Namespace: "pedoman"},
			{ID: "t1", Type: DocumentTypeStudentThesis, Name: "Skripsi A.pdf", ChunksCount: 30},
			{ID: "t2", Type: DocumentTypeStudentThesis, Name: "Skripsi B.pdf", ChunksCount: 18},
		},
		TotalDocuments: 99,
		TotalChunks:    7,
	}

	assert.Equal(t, 1, resp.GuidelineCount())
	theses := resp.Theses()
	require.Len(t, theses, 2)
	assert.Equal(t, "t1", theses[0].ID)

	doc, ok := resp.Find("t2")
	assert.True(t, ok)
	assert.Equal(t, "Skripsi B.pdf", doc.Name)

	var nilResp *DocumentsResponse
	assert.Equal(t, 0, nilResp.GuidelineCount())
	assert.Empty(t, nilResp.Theses())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Pedoman Skripsi", NamespaceLabel("pedoman"))
	assert.Equal(t, "Skripsi Mahasiswa (doc1)", NamespaceLabel("skripsi_mahasiswa_doc1"))
	assert.Equal(t, "Pedoman Skripsi", DocumentTypeLabel(DocumentTypeGuidelines))
	assert.Equal(t, "Skripsi Mahasiswa", DocumentTypeLabel(DocumentTypeStudentThesis))
	assert.Equal(t, "Sehat", HealthLabel("healthy"))
	assert.Equal(t, "Bermasalah", HealthLabel("degraded"))
	assert.Equal(t, "vector store", ServiceLabel("vector_store"))
	assert.Equal(t, "pdf processor_v2", ServiceLabel("pdf_processor_v2"))
	assert.Equal(t, "Aktif", ServiceStatusLabel(true))
	assert.Equal(t, "Tidak Aktif", ServiceStatusLabel(false))
	assert.Equal(t, "12 chunks", ChunksLabel(12))
}

func TestFormatUptime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2h 5m", FormatUptime(ts, ts.Add(2*time.Hour+5*time.Minute+30*time.Second)))
	assert.Equal(t, "26h 0m", FormatUptime(ts, ts.Add(26*time.Hour)))
	assert.Equal(t, "0h 0m", FormatUptime(ts, ts.Add(-time.Minute)))
	assert.Equal(t, "-", FormatUptime(time.Time{}, ts))
}

func TestTimestamp_Tolerant(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &ts))
	assert.True(t, ts.IsZero())
	assert.Equal(t, "not a date", ts.Raw)

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}
