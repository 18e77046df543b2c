package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
)

// ErrBusy is returned when an upload of the same kind is already in flight for the page
var ErrBusy = errors.New("an upload of this kind is already in progress")

// FallbackMessage is the failure toast text per upload kind
func FallbackMessage(kind models.UploadKind) string {
	if kind == models.UploadKindGuidelines {
		return "Gagal mengupload pedoman skripsi"
	}
	return "Gagal mengupload skripsi"
}

// ChangeNotifier is told about successful uploads (implemented by documents.Service)
type ChangeNotifier interface {
	DocumentsChanged(ctx context.Context, reason, documentID, sourceView string)
}

// Result of a successful upload
type Result struct {
	Response *models.UploadResponse
	Pages    int // advisory page count, 0 when the PDF could not be read locally
}

// Service validates and sends PDF uploads
type Service struct {
	backend  interfaces.BackendService
	notifier ChangeNotifier
	maxBytes int64
	logger   arbor.ILogger
}

// NewService creates the upload service. maxBytes is the client-side size limit.
func NewService(backend interfaces.BackendService, notifier ChangeNotifier, maxBytes int64, logger arbor.ILogger) *Service {
	return &Service{
		backend:  backend,
		notifier: notifier,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// MaxBytes is the configured size limit
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// SizeLimitMessage is the rejection text for oversize files
func (s *Service) SizeLimitMessage() string {
	return fmt.Sprintf("Ukuran file maksimal %dMB", s.maxBytes/(1024*1024))
}

// Validate rejects non-PDF and oversize files before any network call.
// The name must end in .pdf. A declared type must contain "pdf"; an empty or generic declaration is
// settled by sniffing the content.
func (s *Service) Validate(file models.UploadFile) error {
	if !isPDF(file) {
		return httpclient.NewValidationError(httpclient.MessageNotPDF)
	}
	if file.Size() > s.maxBytes {
		return httpclient.NewValidationError(s.SizeLimitMessage())
	}
	return nil
}

func isPDF(file models.UploadFile) bool {
	if !strings.EqualFold(filepath.Ext(file.Name), ".pdf") {
		return false
	}
	declared := strings.ToLower(strings.TrimSpace(file.ContentType))
	if declared != "" && declared != "application/octet-stream" {
		return strings.Contains(declared, "pdf")
	}
	return mimetype.Detect(file.Data).Is("application/pdf")
}

// PageCount reads the PDF locally with pdfcpu. It never fails an upload: unreadable files report 0.
func (s *Service) PageCount(file models.UploadFile) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug().Str("file", file.Name).Str("panic", fmt.Sprintf("%v", r)).Msg("PDF inspection aborted")
			pages = 0
		}
	}()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContext(bytes.NewReader(file.Data), conf)
	if err != nil {
		s.logger.Debug().Err(err).Str("file", file.Name).Msg("PDF not readable locally, backend will decide")
		return 0
	}
	return pdfCtx.PageCount
}

// Upload validates and sends the file to the endpoint for kind.
func (s *Service) Upload(ctx context.Context, kind models.UploadKind, file models.UploadFile, sourceView string) (*Result, error) {
	if err := s.Validate(file); err != nil {
		return nil, err
	}

	pages := s.PageCount(file)
	s.logger.Info().
		Str("kind", string(kind)).
		Str("file", file.Name).
		Int64("size", file.Size()).
		Int("pages", pages).
		Msg("Uploading document")

	var (
		resp *models.UploadResponse
		err  error
	)
	switch kind {
	case models.UploadKindGuidelines:
		resp, err = s.backend.UploadGuidelines(ctx, file)
	case models.UploadKindThesis:
		resp, err = s.backend.UploadThesis(ctx, file)
	default:
		return nil, fmt.Errorf("unknown upload kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	if s.notifier != nil {
		s.notifier.DocumentsChanged(ctx, "upload", resp.DocumentID, sourceView)
	}

	return &Result{Response: resp, Pages: pages}, nil
}

// Tracker holds the in-flight flag per upload kind for one page.
// The two kinds are independent channels.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[models.UploadKind]bool
}

func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[models.UploadKind]bool)}
}

// Begin marks kind as in flight. The returned func clears it.
func (t *Tracker) Begin(kind models.UploadKind) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight[kind] {
		return nil, ErrBusy
	}
	t.inFlight[kind] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, kind)
			t.mu.Unlock()
		})
	}, nil
}

// InFlight reports whether an upload of kind is running
func (t *Tracker) InFlight(kind models.UploadKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[kind]
}
