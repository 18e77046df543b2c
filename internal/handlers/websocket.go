package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/views"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsClient is one browser tab. gorilla connections allow a single concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(msg views.OutMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

type WebSocketHandler struct {
	logger   arbor.ILogger
	registry *views.Registry
}

func NewWebSocketHandler(registry *views.Registry, logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		logger:   logger,
		registry: registry,
	}
}

// HandleWebSocket binds one connection to a freshly mounted view for ?page=.
// The view lives exactly as long as the connection.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	page, ok := views.ParsePage(r.URL.Query().Get("page"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "unknown page")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &wsClient{conn: conn}
	view := h.registry.Mount(page, client)

	h.logger.Debug().
		Str("view_id", view.ID).
		Str("page", string(page)).
		Msgf("WebSocket client connected (total: %d)", h.registry.Count())

	// Handle client disconnection
	defer func() {
		h.registry.Unmount(view.ID)
		conn.Close()
		h.logger.Debug().Str("view_id", view.ID).Msgf("WebSocket client disconnected (remaining: %d)", h.registry.Count())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			return
		}

		var action views.Action
		if err := json.Unmarshal(data, &action); err != nil {
			h.logger.Warn().Err(err).Str("view_id", view.ID).Msg("Ignoring malformed action")
			continue
		}

		// Actions run concurrently so a long chat request never blocks refresh or delete
		common.SafeGo(h.logger, "view-action", func() {
			if err := h.registry.Dispatch(view.Context(), view, action); err != nil {
				h.logger.Warn().Err(err).Str("view_id", view.ID).Str("action", action.Type).Msg("Action failed")
			}
		})
	}
}
