package interfaces

import "github.com/ternarybob/pedoman/internal/models"

// PDFService renders chat conversations as downloadable PDF files
type PDFService interface {
	// RenderTranscript converts the messages of one chat session to a PDF byte slice
	RenderTranscript(title string, messages []models.Message) ([]byte, error)
}
