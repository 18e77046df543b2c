package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("", arbor.NewLogger())
	require.NoError(t, err)
	return r
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func pageOf(v int) *int { return &v }

func TestNav(t *testing.T) {
	nav, err := Nav()
	require.NoError(t, err)

	labels := make([]string, len(nav))
	for i, item := range nav {
		labels[i] = item.Label
	}
	assert.Equal(t, []string{"Beranda", "Chat Assistant", "Upload Dokumen", "Dokumen", "Statistik"}, labels)
	assert.Equal(t, "/", nav[0].Path)
}

func TestRenderPage_HighlightsActiveNav(t *testing.T) {
	r := newTestRenderer(t)

	for _, item := range r.NavItems() {
		t.Run(item.Page, func(t *testing.T) {
			var buf bytes.Buffer
			err := r.RenderPage(&buf, item.Page, PageData{
				Page:   item.Page,
				Title:  item.Title,
				Nav:    r.NavItems(),
				Chat:   ChatData{IncludeGuidelines: true},
				Upload: UploadData{MaxSizeMB: 50},
			})
			require.NoError(t, err)

			doc := parseHTML(t, buf.String())
			active := doc.Find(".app-nav .nav-item.active")
			require.Equal(t, 1, active.Length())
			assert.Equal(t, item.Label, active.Text())
			assert.Equal(t, item.Page, doc.Find("body").AttrOr("data-page", ""))
		})
	}

	assert.Error(t, r.RenderPage(&bytes.Buffer{}, "missing", PageData{}))
}

func TestDocumentsPanel(t *testing.T) {
	r := newTestRenderer(t)
	resp := &models.DocumentsResponse{
		Documents: []models.Document{
			{ID: "doc-1", Type: models.DocumentTypeGuidelines, Name: "Pedoman.pdf", ChunksCount: 12, Namespace: "pedoman"},
			{ID: "doc-2", Type: models.DocumentTypeStudentThesis, Name: "Skripsi Budi.pdf", ChunksCount: 30, Namespace: "skripsi_mahasiswa_doc-2"},
		},
		TotalDocuments: 2,
		TotalChunks:    42,
	}

	html, err := r.RenderFragment(FragmentDocuments, DocumentsData{Response: resp, GuidelineCount: resp.GuidelineCount()})
	require.NoError(t, err)
	doc := parseHTML(t, html)

	assert.Equal(t, "2", doc.Find("#total-documents").Text())
	assert.Equal(t, "42", doc.Find("#total-chunks").Text())
	assert.Equal(t, "1", doc.Find("#guideline-count").Text())

	row := doc.Find(`.document-row[data-document-id="doc-1"]`)
	require.Equal(t, 1, row.Length())
	assert.Equal(t, "Pedoman Skripsi", row.Find(".document-type").Text())
	assert.Equal(t, "12 chunks", row.Find(".document-chunks").Text())
	assert.Equal(t, "doc-1", row.Find(`[data-action="documents.delete"]`).AttrOr("data-id", ""))
}

func TestDocumentsPanel_ErrorCard(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderFragment(FragmentDocuments, DocumentsData{Error: "Server error - silakan coba lagi nanti"})
	require.NoError(t, err)
	doc := parseHTML(t, html)

	card := doc.Find(".error-card")
	require.Equal(t, 1, card.Length())
	assert.Contains(t, card.Text(), "Server error - silakan coba lagi nanti")
	assert.Equal(t, "documents.refresh", card.Find("button").AttrOr("data-action", ""))
}

func TestChatMessages(t *testing.T) {
	r := newTestRenderer(t)
	processing := 1.2

	html, err := r.RenderFragment(FragmentChatMessages, ChatData{Messages: []models.Message{
		{ID: "m1", Role: models.RoleUser, Content: "format daftar pustaka", Status: models.MessageStatusSent},
		{ID: "m2", Role: models.RoleAssistant, Content: "Gunakan **APA**.", Status: models.MessageStatusSent,
			Sources:        []models.Source{{Source: "Pedoman.pdf", Page: pageOf(34), SimilarityScore: 0.87}},
			ProcessingTime: &processing},
		{ID: "m3", Role: models.RoleUser, Content: "<b>tidak</b>", Status: models.MessageStatusFailed},
	}})
	require.NoError(t, err)
	doc := parseHTML(t, html)

	assert.Equal(t, 3, doc.Find(".message").Length())
	assert.Equal(t, "Pedoman.pdf - Hal. 34 (87%)", doc.Find(".source-line").Text())
	assert.Equal(t, "1.20s", doc.Find(".processing-time").Text())
	assert.Equal(t, 1, doc.Find(".message-assistant strong").Length())
	assert.Equal(t, 1, doc.Find(".status-failed").Length())
	// user content is escaped, not interpreted
	assert.Equal(t, 0, doc.Find(".message-user b").Length())
}

func TestChatDocuments_OnlyTheses(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderFragment(FragmentChatDocuments, ChatData{
		Theses:           []models.Document{{ID: "t1", Name: "Skripsi A.pdf"}, {ID: "t2", Name: "Skripsi B.pdf"}},
		SelectedDocument: "t2",
	})
	require.NoError(t, err)
	doc := parseHTML(t, html)

	options := doc.Find("option")
	assert.Equal(t, 3, options.Length())
	assert.Equal(t, "", options.First().AttrOr("value", "x"))
	_, selected := doc.Find(`option[value="t2"]`).Attr("selected")
	assert.True(t, selected)
}

func TestHealthAndStatsPanels(t *testing.T) {
	r := newTestRenderer(t)

	health := &models.HealthResponse{
		Status:  "healthy",
		Version: "1.0.0",
		Services: models.OrderedPairs[bool]{
			{Key: "vector_store", Value: true},
			{Key: "gemini_api", Value: false},
		},
	}
	html, err := r.RenderFragment(FragmentHealth, HealthData{Health: health, Error: "Request timeout - server tidak merespons"})
	require.NoError(t, err)
	doc := parseHTML(t, html)

	assert.Equal(t, "Sehat", strings.TrimSpace(doc.Find(".health-status").Text()))
	names := doc.Find(".service-name").Map(func(i int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"vector store", "gemini api"}, names)
	assert.Equal(t, "Tidak Aktif", doc.Find(".service-state.down").Text())
	assert.Contains(t, doc.Find(".stale-note").Text(), "Request timeout")

	stats := &models.SystemStatsResponse{
		VectorStore: models.VectorStoreStats{
			TotalDocuments:        3,
			NamespaceDistribution: models.OrderedPairs[int]{{Key: "pedoman", Value: 120}, {Key: "skripsi_mahasiswa_doc1", Value: 60}},
			CollectionName:        "pedoman_skripsi",
		},
		GeminiConnection: true,
	}
	html, err = r.RenderFragment(FragmentStats, StatsData{Stats: stats, TotalChunks: stats.TotalChunks(), MaxCount: stats.MaxNamespaceCount()})
	require.NoError(t, err)
	doc = parseHTML(t, html)

	assert.Equal(t, "180", doc.Find(".stats-total-chunks").Text())
	labels := doc.Find(".namespace-label").Map(func(i int, s *goquery.Selection) string { return s.Text() })
	assert.Equal(t, []string{"Pedoman Skripsi", "Skripsi Mahasiswa (doc1)"}, labels)
	assert.Contains(t, doc.Find(".bar-fill").Last().AttrOr("style", ""), "50.0%")
}

func TestNewRenderer_UserOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.html"),
		[]byte(`{{template "header" .}}<p id="custom">kampus</p>{{template "footer" .}}`), 0644))

	r, err := NewRenderer(dir, arbor.NewLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, "home", PageData{Page: "home", Nav: r.NavItems()}))
	assert.Equal(t, "kampus", parseHTML(t, buf.String()).Find("#custom").Text())
}
