package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/domain"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/internal/service"
)

// messagePayload is the wire form of a composed message. Exactly one
// payload field is used, selected by Type.
type messagePayload struct {
	Type     string `json:"type" binding:"required"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Location *struct {
		Longitude float64 `json:"longitude"`
		Latitude  float64 `json:"latitude"`
	} `json:"location"`
}

func (p messagePayload) toBody() (domain.Body, error) {
	switch domain.Kind(p.Type) {
	case domain.KindText:
		if p.Text == "" {
			return domain.Body{}, common.ErrInvalidInput
		}
		return domain.Body{Kind: domain.KindText, Text: p.Text}, nil
	case domain.KindPhoto, domain.KindVideo:
		if p.URL == "" {
			return domain.Body{}, common.ErrInvalidInput
		}
		return domain.Body{Kind: domain.Kind(p.Type), URL: p.URL}, nil
	case domain.KindLocation:
		if p.Location == nil {
			return domain.Body{}, common.ErrInvalidInput
		}
		return domain.Body{
			Kind: domain.KindLocation,
			Location: domain.Location{
				Longitude: p.Location.Longitude,
				Latitude:  p.Location.Latitude,
			},
		}, nil
	default:
		// Unsupported kinds are accepted and render to empty content
		return domain.Body{Kind: domain.Kind(p.Type)}, nil
	}
}

// MessageHandler handles message log endpoints
type MessageHandler struct {
	chatService service.ChatService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(chatService service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	conversationID := c.Param("id")

	messages, err := h.chatService.Messages(c.Request.Context(), id, conversationID)
	if err != nil {
		if errors.Is(err, common.ErrConversationNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Conversation not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load messages", err)
		return
	}
	common.SuccessResponse(c, messages)
}

// SendMessage handles POST /api/v1/conversations/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	conversationID := c.Param("id")

	var req struct {
		OtherUserEmail string         `json:"other_user_email" binding:"required"`
		Name           string         `json:"name" binding:"required"`
		Message        messagePayload `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message request", err)
		return
	}

	body, err := req.Message.toBody()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message payload", err)
		return
	}

	record, err := h.chatService.SendMessage(c.Request.Context(), id, conversationID, req.OtherUserEmail, req.Name, service.OutgoingMessage{Body: body})
	if err != nil {
		if errors.Is(err, common.ErrConversationNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Conversation not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}
	common.CreatedResponse(c, record)
}
