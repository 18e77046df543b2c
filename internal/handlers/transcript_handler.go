package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/pdf"
)

const (
	MessageNoConversation  = "Belum ada percakapan untuk diunduh"
	MessageTranscriptError = "Gagal membuat PDF percakapan"
)

// TranscriptSource resolves the messages of a live chat view
type TranscriptSource interface {
	Transcript(viewID string) ([]models.Message, bool)
}

type TranscriptHandler struct {
	source TranscriptSource
	pdf    interfaces.PDFService
	logger arbor.ILogger
}

func NewTranscriptHandler(source TranscriptSource, pdf interfaces.PDFService, logger arbor.ILogger) *TranscriptHandler {
	return &TranscriptHandler{
		source: source,
		pdf:    pdf,
		logger: logger,
	}
}

// DownloadHandler serves the chat of ?view=<id> as a PDF attachment.
// The conversation only exists while its page is open, so closed views are 404.
func (h *TranscriptHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	messages, ok := h.source.Transcript(r.URL.Query().Get("view"))
	if !ok {
		WriteError(w, http.StatusNotFound, MessageNoConversation)
		return
	}

	data, err := h.pdf.RenderTranscript(pdf.TranscriptTitle, messages)
	if errors.Is(err, pdf.ErrEmptyTranscript) {
		WriteError(w, http.StatusNotFound, MessageNoConversation)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to render transcript")
		WriteError(w, http.StatusInternalServerError, MessageTranscriptError)
		return
	}

	filename := fmt.Sprintf("percakapan-%s.pdf", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
