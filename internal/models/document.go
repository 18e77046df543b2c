package models

// DocumentType classifies an indexed document
type DocumentType string

const (
	DocumentTypeGuidelines    DocumentType = "guidelines"
	DocumentTypeStudentThesis DocumentType = "student_thesis"
)

// Document is one indexed file as listed by GET /documents
type Document struct {
	ID          string       `json:"id"`
	Type        DocumentType `json:"type"`
	Name        string       `json:"name"`
	ChunksCount int          `json:"chunks_count"`
	Namespace   string       `json:"namespace"`
}

// DocumentsResponse carries the listing plus backend-computed totals.
// TotalDocuments and TotalChunks are displayed as received, never recomputed.
type DocumentsResponse struct {
	Documents      []Document `json:"documents"`
	TotalDocuments int        `json:"total_documents"`
	TotalChunks    int        `json:"total_chunks"`
}

// GuidelineCount is the number of listed documents of type guidelines.
func (r *DocumentsResponse) GuidelineCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, doc := range r.Documents {
		if doc.Type == DocumentTypeGuidelines {
			count++
		}
	}
	return count
}

// Theses returns the student_thesis documents in listing order.
func (r *DocumentsResponse) Theses() []Document {
	if r == nil {
		return nil
	}
	theses := make([]Document, 0, len(r.Documents))
	for _, doc := range r.Documents {
		if doc.Type == DocumentTypeStudentThesis {
			theses = append(theses, doc)
		}
	}
	return theses
}

// Find returns the listed document with the given id.
func (r *DocumentsResponse) Find(id string) (Document, bool) {
	if r == nil {
		return Document{}, false
	}
	for _, doc := range r.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

// UploadResponse is returned by both upload endpoints
type UploadResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	DocumentID    string `json:"document_id,omitempty"`
	ChunksCreated *int   `json:"chunks_created,omitempty"`
}

// DeleteResponse is returned by DELETE /documents/{id}
type DeleteResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	DeletedChunks int    `json:"deleted_chunks"`
}
