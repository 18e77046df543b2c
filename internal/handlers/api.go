package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
)

// ViewCounter reports how many live views are mounted
type ViewCounter interface {
	Count() int
}

type APIHandler struct {
	logger arbor.ILogger
	views  ViewCounter
}

func NewAPIHandler(views ViewCounter, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		logger: logger,
		views:  views,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    common.GetVersion(),
		"build":      common.Build,
		"git_commit": common.GitCommit,
	})
}

// HealthHandler reports liveness of this web process (not the backend)
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	body := map[string]interface{}{
		"status":     "ok",
		"goroutines": common.GetGoroutineCount(),
	}
	if h.views != nil {
		body["views"] = h.views.Count()
	}
	WriteJSON(w, http.StatusOK, body)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
