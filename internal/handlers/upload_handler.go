package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/upload"
)

// multipartOverhead allows for form boundaries and the view field on top of the file itself
const multipartOverhead = 1 << 20

// MessageUploadBusy is returned while an upload of the same kind is running in the same view
const MessageUploadBusy = "Upload sebelumnya masih berjalan"

// Uploader runs an upload on behalf of a mounted view
type Uploader interface {
	Upload(ctx context.Context, viewID string, kind models.UploadKind, file models.UploadFile) (*upload.Result, error)
}

// UploadResult is the JSON body of POST /upload/{kind}
type UploadResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	DocumentID    string `json:"document_id,omitempty"`
	ChunksCreated *int   `json:"chunks_created,omitempty"`
	Pages         int    `json:"pages,omitempty"`
}

type UploadHandler struct {
	logger   arbor.ILogger
	uploader Uploader
	uploads  *upload.Service
}

func NewUploadHandler(uploader Uploader, uploads *upload.Service, logger arbor.ILogger) *UploadHandler {
	return &UploadHandler{
		logger:   logger,
		uploader: uploader,
		uploads:  uploads,
	}
}

// UploadHandler accepts a multipart "file" plus an optional "view" id and forwards it to the backend
func (h *UploadHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	kind, ok := models.ParseUploadKind(mux.Vars(r)["kind"])
	if !ok {
		WriteJSON(w, http.StatusNotFound, UploadResult{Message: "Jenis dokumen tidak dikenal"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSON(w, http.StatusRequestEntityTooLarge, UploadResult{Message: h.uploads.SizeLimitMessage()})
			return
		}
		WriteJSON(w, http.StatusBadRequest, UploadResult{Message: "Form upload tidak valid"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	part, header, err := r.FormFile("file")
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, UploadResult{Message: "File tidak ditemukan"})
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Failed to read uploaded file")
		WriteJSON(w, http.StatusBadRequest, UploadResult{Message: "Gagal membaca file"})
		return
	}

	file := models.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	result, err := h.uploader.Upload(r.Context(), r.FormValue("view"), kind, file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrBusy):
			WriteJSON(w, http.StatusConflict, UploadResult{Message: MessageUploadBusy})
		case httpclient.IsKind(err, httpclient.KindValidationRejected):
			WriteJSON(w, http.StatusBadRequest, UploadResult{Message: httpclient.UserMessage(err, upload.FallbackMessage(kind))})
		default:
			h.logger.Warn().Err(err).Str("kind", string(kind)).Str("file", file.Name).Msg("Upload failed")
			WriteJSON(w, http.StatusBadGateway, UploadResult{Message: httpclient.UserMessage(err, upload.FallbackMessage(kind))})
		}
		return
	}

	WriteJSON(w, http.StatusOK, UploadResult{
		Success:       result.Response.Success,
		Message:       result.Response.Message,
		DocumentID:    result.Response.DocumentID,
		ChunksCreated: result.Response.ChunksCreated,
		Pages:         result.Pages,
	})
}
