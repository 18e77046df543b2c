package templates

import "github.com/ternarybob/pedoman/internal/models"

// Fragment template names and the DOM ids they replace
const (
	FragmentChatMessages  = "chat_messages"
	FragmentChatStatus    = "chat_status"
	FragmentChatDocuments = "chat_documents"
	FragmentDocuments     = "documents_panel"
	FragmentHealth        = "health_panel"
	FragmentHealthBadge   = "health_badge"
	FragmentStats         = "stats_panel"
	FragmentUploadStatus  = "upload_status"

	TargetChatMessages  = "chat-messages"
	TargetChatStatus    = "chat-status"
	TargetChatDocuments = "chat-documents"
	TargetDocuments     = "documents-panel"
	TargetHealth        = "health-panel"
	TargetHealthBadge   = "health-badge"
	TargetStats         = "stats-panel"
	TargetUploadStatus  = "upload-status"
)

// PageData is the root data of every full page
type PageData struct {
	Page        string
	Title       string
	Nav         []NavItem
	ClientDebug bool
	Version     string

	Chat      ChatData
	Documents DocumentsData
	Health    HealthData
	Stats     StatsData
	Upload    UploadData
}

// ChatData feeds the chat fragments
type ChatData struct {
	Messages          []models.Message
	Submitting        bool
	Theses            []models.Document
	SelectedDocument  string
	IncludeGuidelines bool
	DocumentsError    string
}

// DocumentsData feeds the documents panel. Error replaces the panel with a retry card.
type DocumentsData struct {
	Response       *models.DocumentsResponse
	GuidelineCount int
	Error          string
}

// HealthData feeds the health panel and the home badge
type HealthData struct {
	Health *models.HealthResponse
	Error  string // latest poll error; Health still holds the last good payload
}

// StatsData feeds the statistics panel
type StatsData struct {
	Stats       *models.SystemStatsResponse
	TotalChunks int
	MaxCount    int
	Error       string
}

// UploadChannel is the state of one upload kind
type UploadChannel struct {
	Kind        string
	Label       string
	InFlight    bool
	LastMessage string
	LastPages   int
	LastChunks  int
}

// UploadData feeds the upload status fragment
type UploadData struct {
	Channels  []UploadChannel
	MaxSizeMB int
}
