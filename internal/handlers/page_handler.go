package handlers

import (
	"bytes"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/services/documents"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/templates"
	"github.com/ternarybob/pedoman/internal/views"
)

type PageHandler struct {
	logger    arbor.ILogger
	renderer  *templates.Renderer
	documents *documents.Service
	cache     interfaces.CacheService
	config    *common.Config
}

func NewPageHandler(renderer *templates.Renderer, documents *documents.Service, cache interfaces.CacheService, config *common.Config, logger arbor.ILogger) *PageHandler {
	return &PageHandler{
		logger:    logger,
		renderer:  renderer,
		documents: documents,
		cache:     cache,
		config:    config,
	}
}

// ServePage renders the full page. Live parts are filled from the cache where possible
// and then kept current over the page's websocket.
func (h *PageHandler) ServePage(page views.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, _ := h.renderer.NavItem(string(page))
		data := templates.PageData{
			Page:        string(page),
			Title:       item.Title,
			Nav:         h.renderer.NavItems(),
			ClientDebug: h.config.UI.ClientDebug,
			Version:     common.GetVersion(),
		}

		switch page {
		case views.PageChat:
			data.Chat = templates.ChatData{IncludeGuidelines: true}
			if resp, err := h.documents.List(r.Context()); err == nil {
				data.Chat.Theses = resp.Theses()
			}
		case views.PageDocuments:
			resp, err := h.documents.List(r.Context())
			data.Documents = views.DocumentsData(resp, err)
		case views.PageHome, views.PageStats:
			var snap status.Snapshot
			snap.Health, _ = cache.Peek[*models.HealthResponse](h.cache, interfaces.CacheKeyHealth)
			snap.Stats, _ = cache.Peek[*models.SystemStatsResponse](h.cache, interfaces.CacheKeyStats)
			data.Health = views.HealthData(snap)
			data.Stats = views.StatsData(snap)
		case views.PageUpload:
			data.Upload = views.UploadData(nil, nil, h.config.Upload.MaxSizeMB)
		}

		// Render to a buffer so a template error never leaves a half-written page
		var buf bytes.Buffer
		if err := h.renderer.RenderPage(&buf, string(page), data); err != nil {
			h.logger.Error().
				Err(err).
				Str("page", string(page)).
				Msg("Failed to render page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}

// StaticFileHandler serves the embedded static files (CSS, JS)
func (h *PageHandler) StaticFileHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(templates.StaticFS())))
}
