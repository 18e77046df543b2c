package views

import (
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/chat"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
	"github.com/ternarybob/pedoman/internal/templates"
)

// Fallback texts shown when an error carries no usable message
const (
	FallbackDocumentsMessage = "Gagal memuat daftar dokumen"
	FallbackHealthMessage    = "Gagal memuat status sistem"
	FallbackStatsMessage     = "Gagal memuat statistik"
)

// DocumentsData builds the documents panel from a listing result
func DocumentsData(resp *models.DocumentsResponse, err error) templates.DocumentsData {
	if err != nil {
		return templates.DocumentsData{Error: httpclient.UserMessage(err, FallbackDocumentsMessage)}
	}
	return templates.DocumentsData{
		Response:       resp,
		GuidelineCount: resp.GuidelineCount(),
	}
}

// HealthData builds the health panel from a monitor snapshot
func HealthData(snap status.Snapshot) templates.HealthData {
	data := templates.HealthData{Health: snap.Health}
	if snap.HealthError != nil {
		data.Error = httpclient.UserMessage(snap.HealthError, FallbackHealthMessage)
	}
	return data
}

// StatsData builds the statistics panel from a monitor snapshot
func StatsData(snap status.Snapshot) templates.StatsData {
	data := templates.StatsData{
		Stats:       snap.Stats,
		TotalChunks: snap.Stats.TotalChunks(),
		MaxCount:    snap.Stats.MaxNamespaceCount(),
	}
	if snap.StatsError != nil {
		data.Error = httpclient.UserMessage(snap.StatsError, FallbackStatsMessage)
	}
	return data
}

// ChatData builds the chat fragments from a session snapshot and the view's selection
func ChatData(snap chat.Snapshot, sel chatSelection, theses []models.Document, documentsError string) templates.ChatData {
	return templates.ChatData{
		Messages:          snap.Messages,
		Submitting:        snap.State == chat.StateSubmitting,
		Theses:            theses,
		SelectedDocument:  sel.DocumentID,
		IncludeGuidelines: sel.IncludeGuidelines,
		DocumentsError:    documentsError,
	}
}

var uploadKinds = []struct {
	kind  models.UploadKind
	label string
}{
	{models.UploadKindGuidelines, "Pedoman Skripsi"},
	{models.UploadKindThesis, "Skripsi Mahasiswa"},
}

// UploadData builds the upload status fragment for both channels
func UploadData(tracker *upload.Tracker, results map[models.UploadKind]*upload.Result, maxSizeMB int) templates.UploadData {
	data := templates.UploadData{MaxSizeMB: maxSizeMB}
	for _, k := range uploadKinds {
		channel := templates.UploadChannel{Kind: string(k.kind), Label: k.label}
		if tracker != nil {
			channel.InFlight = tracker.InFlight(k.kind)
		}
		if result, ok := results[k.kind]; ok && result != nil && result.Response != nil {
			channel.LastMessage = result.Response.Message
			channel.LastPages = result.Pages
			if result.Response.ChunksCreated != nil {
				channel.LastChunks = *result.Response.ChunksCreated
			}
		}
		data.Channels = append(data.Channels, channel)
	}
	return data
}
