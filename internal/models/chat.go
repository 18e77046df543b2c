package models

// ChatRequest is the body of POST /chat.
// DocumentID is omitted from the JSON when empty; IncludeGuidelines is always sent.
type ChatRequest struct {
	Question          string `json:"question" validate:"required,max=1000"`
	DocumentID        string `json:"document_id,omitempty"`
	IncludeGuidelines bool   `json:"include_guidelines"`
}

// ChatResponse is one answer. Sources keep the backend's relevance order.
type ChatResponse struct {
	Answer         string    `json:"answer"`
	Sources        []Source  `json:"sources"`
	ProcessingTime float64   `json:"processing_time"`
	Timestamp      Timestamp `json:"timestamp"`
}

// Source is a retrieved chunk reference attached to an answer.
type Source struct {
	Source          string  `json:"source"`
	Page            *int    `json:"page,omitempty"`
	Chapter         *string `json:"chapter,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
}
