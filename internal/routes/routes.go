package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/talkwave/talkwave-backend/internal/handler"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	conversationHandler *handler.ConversationHandler,
	messageHandler *handler.MessageHandler,
	uploadHandler *handler.UploadHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Everything below requires a verified token
	protected := api.Group("", middleware.JWTAuth(jwtManager))

	// User directory
	protected.GET("/users", userHandler.ListUsers)

	// Conversations
	conversations := protected.Group("/conversations")
	{
		conversations.GET("", conversationHandler.ListConversations)
		conversations.POST("", conversationHandler.CreateConversation)
		conversations.GET("/exists", conversationHandler.ConversationExists)
		conversations.DELETE("/:id", conversationHandler.DeleteConversation)

		// Message log of a single conversation
		conversations.GET("/:id/messages", messageHandler.ListMessages)
		conversations.POST("/:id/messages", messageHandler.SendMessage)
	}

	// Blob uploads
	uploads := protected.Group("/uploads")
	uploads.POST("/profile-picture", uploadHandler.UploadProfilePicture)
	uploads.POST("/message-photo", uploadHandler.UploadMessagePhoto)
	uploads.POST("/message-video", uploadHandler.UploadMessageVideo)

	// Live updates (token via query param for WebSocket clients)
	protected.GET("/ws", wsHandler.Serve)
}
