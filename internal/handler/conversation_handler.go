package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/internal/service"
)

// ConversationHandler handles conversation index endpoints
type ConversationHandler struct {
	chatService service.ChatService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(chatService service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

// ListConversations handles GET /api/v1/conversations
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	conversations, err := h.chatService.Conversations(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load conversations", err)
		return
	}
	common.SuccessResponse(c, conversations)
}

// CreateConversation handles POST /api/v1/conversations
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	var req struct {
		OtherUserEmail string         `json:"other_user_email" binding:"required"`
		Name           string         `json:"name" binding:"required"`
		Message        messagePayload `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid conversation request", err)
		return
	}

	body, err := req.Message.toBody()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid message payload", err)
		return
	}

	created, err := h.chatService.CreateConversation(c.Request.Context(), id, req.OtherUserEmail, req.Name, service.OutgoingMessage{Body: body})
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "User not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create conversation", err)
		return
	}
	common.CreatedResponse(c, created)
}

// DeleteConversation handles DELETE /api/v1/conversations/:id
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	conversationID := c.Param("id")
	if err := h.chatService.DeleteConversation(c.Request.Context(), id, conversationID); err != nil {
		if errors.Is(err, common.ErrConversationNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Conversation not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete conversation", err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": conversationID})
}

// ConversationExists handles GET /api/v1/conversations/exists?other=<email>
func (h *ConversationHandler) ConversationExists(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	other := c.Query("other")
	if other == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing other parameter", nil)
		return
	}

	conversationID, err := h.chatService.ConversationExists(c.Request.Context(), id, other)
	if err != nil {
		if errors.Is(err, common.ErrConversationNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "No conversation with this user", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to check conversation", err)
		return
	}
	common.SuccessResponse(c, gin.H{"conversation_id": conversationID})
}
