package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/handlers"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/services/backend"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/services/documents"
	"github.com/ternarybob/pedoman/internal/services/events"
	"github.com/ternarybob/pedoman/internal/services/pdf"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
	"github.com/ternarybob/pedoman/internal/templates"
	"github.com/ternarybob/pedoman/internal/views"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Backend access
	BackendService interfaces.BackendService
	CacheService   interfaces.CacheService
	EventService   interfaces.EventService

	// Controllers
	DocumentService *documents.Service
	UploadService   *upload.Service
	PDFService      interfaces.PDFService

	// Presentation
	Renderer *templates.Renderer
	Registry *views.Registry

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	PageHandler       *handlers.PageHandler
	WSHandler         *handlers.WebSocketHandler
	UploadHandler     *handlers.UploadHandler
	TranscriptHandler *handlers.TranscriptHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Str("backend", cfg.Backend.BaseURL).
		Str("health_interval", cfg.Polling.HealthInterval).
		Str("stats_interval", cfg.Polling.StatsInterval).
		Msg("Application initialization complete")

	return app, nil
}

// NewBackend builds only the backend access layer. The CLI uses it for one-shot commands.
func NewBackend(cfg *common.Config, logger arbor.ILogger) (interfaces.BackendService, error) {
	client, err := httpclient.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	return backend.NewService(client, logger), nil
}

func (a *App) initServices() error {
	var err error

	a.BackendService, err = NewBackend(a.Config, a.Logger)
	if err != nil {
		return err
	}

	a.EventService = events.NewService(a.Logger)
	if err := events.SubscribeLoggerToAllEvents(a.EventService, a.Logger); err != nil {
		return fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	a.CacheService = cache.NewService(a.Config.CacheTTL(), a.Logger)
	a.DocumentService = documents.NewService(a.BackendService, a.CacheService, a.EventService, a.Logger)
	a.UploadService = upload.NewService(a.BackendService, a.DocumentService, a.Config.MaxUploadBytes(), a.Logger)
	a.PDFService = pdf.NewService(a.Logger)

	a.Renderer, err = templates.NewRenderer(a.Config.UI.TemplatesDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	a.Registry, err = views.NewRegistry(views.Deps{
		Backend:   a.BackendService,
		Cache:     a.CacheService,
		Events:    a.EventService,
		Documents: a.DocumentService,
		Uploads:   a.UploadService,
		Renderer:  a.Renderer,
		Intervals: map[status.Target]time.Duration{
			status.TargetHealth: a.Config.HealthInterval(),
			status.TargetStats:  a.Config.StatsInterval(),
		},
		MaxSizeMB: a.Config.Upload.MaxSizeMB,
		Logger:    a.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create view registry: %w", err)
	}

	a.Logger.Debug().Msg("Services initialized")
	return nil
}

func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler(a.Registry, a.Logger)
	a.PageHandler = handlers.NewPageHandler(a.Renderer, a.DocumentService, a.CacheService, a.Config, a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.Registry, a.Logger)
	a.UploadHandler = handlers.NewUploadHandler(a.Registry, a.UploadService, a.Logger)
	a.TranscriptHandler = handlers.NewTranscriptHandler(a.Registry, a.PDFService, a.Logger)

	a.Logger.Debug().Msg("Handlers initialized")
	return nil
}

// Close unmounts every view (stopping their pollers) and closes the event service
func (a *App) Close() error {
	if a.Registry != nil {
		a.Registry.Close()
		a.Logger.Info().Msg("Views closed")
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	return nil
}
