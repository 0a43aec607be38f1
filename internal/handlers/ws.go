package handlers

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"github.com/damione1/live-poll/internal/config"
	"github.com/damione1/live-poll/internal/models"
	"github.com/damione1/live-poll/internal/security"
	"github.com/damione1/live-poll/internal/services"
)

type WSHandler struct {
	hub     *services.Hub
	handler services.MessageHandler
	origins *security.OriginValidator
	log     *slog.Logger
}

func NewWSHandler(hub *services.Hub, handler services.MessageHandler, origins *security.OriginValidator, log *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:     hub,
		handler: handler,
		origins: origins,
		log:     log,
	}
}

// HandleWebSocket is the PocketBase route for GET /ws.
func (h *WSHandler) HandleWebSocket(re *core.RequestEvent) error {
	h.ServeHTTP(re.Response, re.Request)
	return nil
}

// ServeHTTP upgrades the request and serves the socket until it closes.
// Every connection gets a fresh id; it is the participant identity.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.hub.ConnectionCount() >= config.MaxTotalConnections {
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, h.origins.GetAcceptOptions())
	if err != nil {
		// Accept has already written the HTTP error response
		h.log.Warn("WebSocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	client := services.NewClient(uuid.NewString(), conn, h.hub, h.handler, h.log)
	h.hub.Register(client)
	client.SendMessage(&models.OutboundMessage{
		Type:    models.MsgTypeConnected,
		Payload: models.ConnectedPayload{ID: client.ID()},
	})

	client.Start()
}
