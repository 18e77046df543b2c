package views

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/chat"
	"github.com/ternarybob/pedoman/internal/services/documents"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
	"github.com/ternarybob/pedoman/internal/templates"
)

// MessageQuestionTooLong is shown when a question exceeds the backend limit
const MessageQuestionTooLong = "Pertanyaan maksimal 1000 karakter"

// ---- chat ----

func (r *Registry) mountChat(v *View) {
	session := chat.NewSession(r.deps.Backend, r.logger)
	session.SetLiveness(v.Alive)
	session.OnChange(func(snap chat.Snapshot) {
		r.renderChat(v, snap)
	})

	v.Apply(func() { v.session = session })

	common.SafeGo(r.logger, "chat-documents", func() { r.loadTheses(v, false) })
}

func (r *Registry) chatData(v *View, snap chat.Snapshot) templates.ChatData {
	var data templates.ChatData
	v.Apply(func() {
		data = ChatData(snap, v.selection, v.theses, v.thesesError)
	})
	return data
}

func (r *Registry) renderChat(v *View, snap chat.Snapshot) {
	data := r.chatData(v, snap)
	r.render(v, templates.TargetChatMessages, templates.FragmentChatMessages, data)
	r.render(v, templates.TargetChatStatus, templates.FragmentChatStatus, data)
}

// loadTheses refreshes the thesis selector. A failed listing leaves the chat usable.
func (r *Registry) loadTheses(v *View, force bool) {
	resp, err := r.fetchDocuments(v.Context(), force)

	applied := v.Apply(func() {
		if err != nil {
			v.thesesError = httpclient.UserMessage(err, FallbackDocumentsMessage)
			return
		}
		v.thesesError = ""
		v.theses = resp.Theses()
		// A selected thesis that no longer exists falls back to no selection
		if v.selection.DocumentID != "" {
			if _, ok := resp.Find(v.selection.DocumentID); !ok {
				v.selection.DocumentID = ""
			}
		}
	})
	if !applied {
		return
	}

	r.render(v, templates.TargetChatDocuments, templates.FragmentChatDocuments, r.chatData(v, r.sessionSnapshot(v)))
}

func (r *Registry) sessionSnapshot(v *View) chat.Snapshot {
	var session *chat.Session
	v.Apply(func() { session = v.session })
	if session == nil {
		return chat.Snapshot{State: chat.StateIdle}
	}
	return session.Snapshot()
}

// Transcript returns the messages of a mounted chat view
func (r *Registry) Transcript(viewID string) ([]models.Message, bool) {
	v, ok := r.Get(viewID)
	if !ok || v.Page != PageChat {
		return nil, false
	}
	return r.sessionSnapshot(v).Messages, true
}

func (r *Registry) selectChat(v *View, documentID string, includeGuidelines bool) {
	v.Apply(func() {
		v.selection = chatSelection{DocumentID: documentID, IncludeGuidelines: includeGuidelines}
	})
}

func (r *Registry) submitChat(ctx context.Context, v *View, question string) {
	var (
		session *chat.Session
		in      chat.Input
	)
	v.Apply(func() {
		session = v.session
		in = chat.Input{
			Question:          question,
			DocumentID:        v.selection.DocumentID,
			IncludeGuidelines: v.selection.IncludeGuidelines,
		}
	})
	if session == nil {
		return
	}

	_, err := session.Submit(ctx, in)
	switch {
	case err == nil:
	case errors.Is(err, chat.ErrEmptyQuestion), errors.Is(err, chat.ErrDiscarded):
	case errors.Is(err, chat.ErrBusy):
		r.logger.Debug().Str("view_id", v.ID).Msg("Chat submit ignored while busy")
	case errors.Is(err, chat.ErrQuestionTooLong):
		v.Toast(ToastError, MessageQuestionTooLong)
	default:
		v.Toast(ToastError, httpclient.UserMessage(err, chat.FallbackErrorMessage))
	}
}

// ---- documents ----

func (r *Registry) fetchDocuments(ctx context.Context, force bool) (*models.DocumentsResponse, error) {
	if force {
		return r.deps.Documents.Refresh(ctx)
	}
	return r.deps.Documents.List(ctx)
}

func (r *Registry) loadDocuments(v *View, force bool) {
	resp, err := r.fetchDocuments(v.Context(), force)
	if !v.Alive() {
		return
	}
	r.render(v, templates.TargetDocuments, templates.FragmentDocuments, DocumentsData(resp, err))
}

func (r *Registry) deleteDocument(ctx context.Context, v *View, id string, confirmed bool) {
	if !confirmed {
		name := id
		if listing, ok := r.deps.Documents.Cached(); ok {
			if doc, found := listing.Find(id); found {
				name = doc.Name
			}
		}
		v.Confirm(ActionDocumentsDelete, id, documents.ConfirmMessage(name))
		return
	}

	resp, err := r.deps.Documents.Delete(ctx, id, true, v.ID)
	if err != nil {
		v.Toast(ToastError, httpclient.UserMessage(err, documents.FallbackDeleteMessage))
		return
	}

	message := resp.Message
	if message == "" {
		message = "Dokumen berhasil dihapus"
	}
	// The documents_changed fan-out has already re-rendered this view
	v.Toast(ToastSuccess, message)
}

// ---- status ----

func (r *Registry) mountMonitor(v *View, targets ...status.Target) {
	intervals := make(map[status.Target]time.Duration, len(targets))
	for _, t := range targets {
		intervals[t] = r.deps.Intervals[t]
	}

	monitor := status.NewMonitor(r.deps.Backend, r.deps.Cache, intervals, r.logger)
	monitor.SetLiveness(v.Alive)
	monitor.OnChange(func(target status.Target, snap status.Snapshot) {
		r.renderStatus(v, target, snap)
	})

	v.Apply(func() { v.monitor = monitor })
	v.onUnmount(monitor.Stop)

	// Seeded payloads are shown before the first poll returns
	snap := monitor.Snapshot()
	for _, t := range targets {
		if (t == status.TargetHealth && snap.Health != nil) || (t == status.TargetStats && snap.Stats != nil) {
			r.renderStatus(v, t, snap)
		}
	}

	monitor.Start()
	if !v.Alive() {
		monitor.Stop()
	}
}

func (r *Registry) renderStatus(v *View, target status.Target, snap status.Snapshot) {
	switch target {
	case status.TargetHealth:
		data := HealthData(snap)
		if v.Page == PageHome {
			r.render(v, templates.TargetHealthBadge, templates.FragmentHealthBadge, data)
			return
		}
		r.render(v, templates.TargetHealth, templates.FragmentHealth, data)
	case status.TargetStats:
		r.render(v, templates.TargetStats, templates.FragmentStats, StatsData(snap))
	}
}

// refreshStatus triggers an immediate poll. An empty target refreshes everything the page polls.
func (r *Registry) refreshStatus(v *View, target status.Target) {
	var monitor *status.Monitor
	v.Apply(func() { monitor = v.monitor })
	if monitor == nil {
		return
	}

	targets := []status.Target{target}
	if target == "" {
		targets = []status.Target{status.TargetHealth, status.TargetStats}
	}
	for _, t := range targets {
		if !monitor.Refresh(t) {
			r.logger.Debug().Str("view_id", v.ID).Str("target", string(t)).Msg("Status refresh throttled or not polled")
		}
	}
}

// ---- upload ----

func (r *Registry) renderUpload(v *View) {
	var data templates.UploadData
	v.Apply(func() {
		data = UploadData(v.uploads, v.uploadResults, r.deps.MaxSizeMB)
	})
	r.render(v, templates.TargetUploadStatus, templates.FragmentUploadStatus, data)
}

// Upload runs an upload on behalf of the view with id viewID. An unknown or empty id uploads
// without live progress. Uploads of the same kind from one view do not overlap.
func (r *Registry) Upload(ctx context.Context, viewID string, kind models.UploadKind, file models.UploadFile) (*upload.Result, error) {
	v, ok := r.Get(viewID)
	if !ok {
		return r.deps.Uploads.Upload(ctx, kind, file, "")
	}

	done, err := v.uploads.Begin(kind)
	if err != nil {
		return nil, err
	}
	r.renderUpload(v)

	result, err := r.deps.Uploads.Upload(ctx, kind, file, v.ID)
	done()

	if err == nil {
		v.Apply(func() { v.uploadResults[kind] = result })
	}
	r.renderUpload(v)

	return result, err
}
