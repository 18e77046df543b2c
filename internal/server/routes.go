package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ternarybob/pedoman/internal/views"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()

	// UI Page routes (server-rendered templates)
	router.HandleFunc("/", s.app.PageHandler.ServePage(views.PageHome)).Methods(http.MethodGet)
	router.HandleFunc("/chat", s.app.PageHandler.ServePage(views.PageChat)).Methods(http.MethodGet)
	router.HandleFunc("/upload", s.app.PageHandler.ServePage(views.PageUpload)).Methods(http.MethodGet)
	router.HandleFunc("/documents", s.app.PageHandler.ServePage(views.PageDocuments)).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.app.PageHandler.ServePage(views.PageStats)).Methods(http.MethodGet)

	// Chat transcript of a live view as PDF
	router.HandleFunc("/chat/transcript", s.app.TranscriptHandler.DownloadHandler).Methods(http.MethodGet)

	// Static files (CSS, JS)
	router.PathPrefix("/static/").Handler(s.app.PageHandler.StaticFileHandler())

	// WebSocket route, one view per connection
	router.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// Uploads are plain multipart posts; progress is pushed over the view's websocket
	router.HandleFunc("/upload/{kind}", s.app.UploadHandler.UploadHandler).Methods(http.MethodPost)

	// API routes - System
	router.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	router.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	router.PathPrefix("/api/").HandlerFunc(s.app.APIHandler.NotFoundHandler)

	return router
}
