package views

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/services/documents"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
	"github.com/ternarybob/pedoman/internal/templates"
)

// Deps are the services shared by every view
type Deps struct {
	Backend   interfaces.BackendService
	Cache     interfaces.CacheService
	Events    interfaces.EventService
	Documents *documents.Service
	Uploads   *upload.Service
	Renderer  *templates.Renderer
	Intervals map[status.Target]time.Duration
	MaxSizeMB int
	Logger    arbor.ILogger
}

// Registry tracks mounted views and routes browser actions to them
type Registry struct {
	deps   Deps
	logger arbor.ILogger

	mu    sync.RWMutex
	views map[string]*View

	subscriptionID string
}

// NewRegistry creates the registry and subscribes it to document change events
func NewRegistry(deps Deps) (*Registry, error) {
	r := &Registry{
		deps:   deps,
		logger: deps.Logger,
		views:  make(map[string]*View),
	}

	if deps.Events != nil {
		id, err := deps.Events.Subscribe(interfaces.EventDocumentsChanged, r.handleDocumentsChanged)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", interfaces.EventDocumentsChanged, err)
		}
		r.subscriptionID = id
	}

	return r, nil
}

// Mount creates a view for page and starts its page-specific work
func (r *Registry) Mount(page Page, sender Sender) *View {
	v := newView(common.NewViewID(), page, sender, r.logger)

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()

	r.logger.Debug().Str("view_id", v.ID).Str("page", string(page)).Msg("View mounted")
	v.Send(MessageMounted, map[string]string{"view_id": v.ID})

	switch page {
	case PageChat:
		r.mountChat(v)
	case PageDocuments:
		common.SafeGo(r.logger, "documents-load", func() { r.loadDocuments(v, false) })
	case PageStats:
		r.mountMonitor(v, status.TargetHealth, status.TargetStats)
	case PageHome:
		r.mountMonitor(v, status.TargetHealth)
	case PageUpload:
		r.renderUpload(v)
	}

	return v
}

// Get returns a mounted view by id
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

// Unmount removes the view, cancels its in-flight work and stops its pollers
func (r *Registry) Unmount(id string) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	v.unmount()
	r.logger.Debug().Str("view_id", id).Msg("View unmounted")
}

// Count returns the number of mounted views
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Close unmounts every view and drops the event subscription
func (r *Registry) Close() {
	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.unmount()
	}

	if r.deps.Events != nil && r.subscriptionID != "" {
		if err := r.deps.Events.Unsubscribe(interfaces.EventDocumentsChanged, r.subscriptionID); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to unsubscribe view registry")
		}
	}
}

func (r *Registry) snapshot() []*View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	return views
}

// Action is one browser -> server live message
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Browser action names
const (
	ActionChatSubmit       = "chat.submit"
	ActionChatSelect       = "chat.select"
	ActionDocumentsRefresh = "documents.refresh"
	ActionDocumentsDelete  = "documents.delete"
	ActionStatsRefresh     = "stats.refresh"
)

// Dispatch runs action against v. It blocks until the action completes;
// callers that must stay responsive run it in a goroutine.
func (r *Registry) Dispatch(ctx context.Context, v *View, action Action) error {
	if !v.Alive() {
		return nil
	}

	switch action.Type {
	case ActionChatSubmit:
		var p struct {
			Question string `json:"question"`
		}
		if err := decodePayload(action.Payload, &p); err != nil {
			return err
		}
		r.submitChat(ctx, v, p.Question)

	case ActionChatSelect:
		var p struct {
			DocumentID        string `json:"document_id"`
			IncludeGuidelines bool   `json:"include_guidelines"`
		}
		if err := decodePayload(action.Payload, &p); err != nil {
			return err
		}
		r.selectChat(v, p.DocumentID, p.IncludeGuidelines)

	case ActionDocumentsRefresh:
		if v.Page == PageChat {
			r.loadTheses(v, true)
		} else {
			r.loadDocuments(v, true)
		}

	case ActionDocumentsDelete:
		var p struct {
			ID        string `json:"id"`
			Confirmed bool   `json:"confirmed"`
		}
		if err := decodePayload(action.Payload, &p); err != nil {
			return err
		}
		r.deleteDocument(ctx, v, p.ID, p.Confirmed)

	case ActionStatsRefresh:
		var p struct {
			Target string `json:"target"`
		}
		if err := decodePayload(action.Payload, &p); err != nil {
			return err
		}
		r.refreshStatus(v, status.Target(p.Target))

	default:
		return fmt.Errorf("unknown action %q", action.Type)
	}

	return nil
}

func decodePayload(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid action payload: %w", err)
	}
	return nil
}

// handleDocumentsChanged refreshes every view that shows documents or statistics
func (r *Registry) handleDocumentsChanged(ctx context.Context, event interfaces.Event) error {
	for _, v := range r.snapshot() {
		switch v.Page {
		case PageDocuments:
			r.loadDocuments(v, false)
		case PageChat:
			r.loadTheses(v, false)
		case PageStats:
			r.refreshStatus(v, status.TargetStats)
		}
	}
	return nil
}

func (r *Registry) render(v *View, target, fragment string, data interface{}) {
	if !v.Alive() {
		return
	}
	html, err := r.deps.Renderer.RenderFragment(fragment, data)
	if err != nil {
		r.logger.Error().Err(err).Str("fragment", fragment).Msg("Failed to render fragment")
		return
	}
	v.Render(target, html)
}
