package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/chat"
	"github.com/ternarybob/pedoman/internal/services/status"
	"github.com/ternarybob/pedoman/internal/services/upload"
)

// Page identifies which page a view is mounted on
type Page string

const (
	PageHome      Page = "home"
	PageChat      Page = "chat"
	PageUpload    Page = "upload"
	PageDocuments Page = "documents"
	PageStats     Page = "stats"
)

// ParsePage validates a page name from the websocket query
func ParsePage(value string) (Page, bool) {
	switch p := Page(value); p {
	case PageHome, PageChat, PageUpload, PageDocuments, PageStats:
		return p, true
	}
	return "", false
}

// Live message types sent to the browser
const (
	MessageMounted = "mounted"
	MessageRender  = "render"
	MessageToast   = "toast"
	MessageConfirm = "confirm"
)

// Toast levels
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// OutMessage is one server -> browser live message
type OutMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Sender delivers live messages to the browser tab owning a view
type Sender interface {
	Send(msg OutMessage) error
}

type chatSelection struct {
	DocumentID        string
	IncludeGuidelines bool
}

// View is one mounted page instance, alive from websocket connect to disconnect.
// State mutations run under mu; network calls never hold it.
type View struct {
	ID   string
	Page Page

	sender Sender
	logger arbor.ILogger
	ctx    context.Context
	cancel context.CancelFunc
	alive  atomic.Bool

	mu            sync.Mutex
	session       *chat.Session
	selection     chatSelection
	theses        []models.Document
	thesesError   string
	monitor       *status.Monitor
	uploads       *upload.Tracker
	uploadResults map[models.UploadKind]*upload.Result
	cleanup       []func()
}

func newView(id string, page Page, sender Sender, logger arbor.ILogger) *View {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		ID:            id,
		Page:          page,
		sender:        sender,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		selection:     chatSelection{IncludeGuidelines: true},
		uploads:       upload.NewTracker(),
		uploadResults: make(map[models.UploadKind]*upload.Result),
	}
	v.alive.Store(true)
	return v
}

// Context is cancelled when the view unmounts
func (v *View) Context() context.Context {
	return v.ctx
}

// Alive reports whether the view is still mounted
func (v *View) Alive() bool {
	return v.alive.Load()
}

// Apply runs fn under the view lock only while the view is mounted.
// Returns false when the result was discarded.
func (v *View) Apply(fn func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.Alive() {
		return false
	}
	fn()
	return true
}

// Send delivers a live message; dropped once unmounted
func (v *View) Send(msgType string, payload interface{}) {
	if !v.Alive() {
		return
	}
	if err := v.sender.Send(OutMessage{Type: msgType, Payload: payload}); err != nil {
		v.logger.Debug().Err(err).Str("view_id", v.ID).Str("type", msgType).Msg("Failed to send live message")
	}
}

// Render replaces the element with id target
func (v *View) Render(target, html string) {
	v.Send(MessageRender, map[string]string{"target": target, "html": html})
}

// Toast shows a transient notification
func (v *View) Toast(level, message string) {
	v.Send(MessageToast, map[string]string{"level": level, "message": message})
}

// Confirm asks the browser to confirm action on id
func (v *View) Confirm(action, id, message string) {
	v.Send(MessageConfirm, map[string]string{"action": action, "id": id, "message": message})
}

func (v *View) onUnmount(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleanup = append(v.cleanup, fn)
}

// unmount marks the view dead, cancels in-flight work and runs cleanups. Idempotent.
func (v *View) unmount() {
	if !v.alive.CompareAndSwap(true, false) {
		return
	}
	v.cancel()

	v.mu.Lock()
	cleanup := v.cleanup
	v.cleanup = nil
	v.mu.Unlock()

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
}
