package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/internal/service"
	"github.com/talkwave/talkwave-backend/internal/ws"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origin enforcement happens at the CORS layer; native
	// clients send no Origin header at all.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated connections and attaches them to the
// hub. Every connection receives the caller's conversation index
// changes; passing ?conversation=<id> additionally streams that
// conversation's message log.
type WSHandler struct {
	hub   *ws.Hub
	store docstore.Store
	chat  service.ChatService
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, store docstore.Store, chat service.ChatService) *WSHandler {
	return &WSHandler{hub: hub, store: store, chat: chat}
}

// Serve handles GET /api/v1/ws
func (h *WSHandler) Serve(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	conversationID := c.Query("conversation")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("user", id.Email).Msg("ws: upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, id.Safe)
	h.hub.Register(client)

	go client.WritePump()

	if conversationID != "" {
		// Watch only conversations the caller's own index lists
		if _, err := h.chat.Messages(c.Request.Context(), id, conversationID); err != nil {
			pkglogger.GetLogger().Warn().Str("user", id.Safe).Str("conversation", conversationID).Msg("ws: conversation watch refused")
		} else {
			path := docstore.MessagesPath(conversationID)
			unsubscribe, err := h.store.Subscribe(c.Request.Context(), path, func(data []byte) {
				client.SendEvent(&ws.Event{Type: "messages", Path: path, Payload: data})
			})
			if err != nil {
				pkglogger.GetLogger().Error().Err(err).Str("conversation", conversationID).Msg("ws: message subscription failed")
			} else {
				defer unsubscribe()
			}
		}
	}

	client.ReadPump()
}
