package api

import (
	"net/http"
	"strconv"

	"support-chat-demo/backend/internal/models"
	"support-chat-demo/backend/internal/service"
	"support-chat-demo/backend/pkg/logger"
	"support-chat-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the chat surface: sending a message and reading
// conversation and message history back.
type ChatHandler struct {
	chatService *service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// SendRequest is the body of POST /chat/send. ConversationID is
// optional: absent means start a new conversation.
type SendRequest struct {
	Message        string `json:"message"`
	ConversationID *uint  `json:"conversationId"`
}

// Send handles one user turn and returns the AI reply with the resolved
// conversation ID.
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	aiMessage, conversationID, err := h.chatService.SendMessage(c.Request.Context(), userID, req.Message, req.ConversationID)
	if err != nil {
		switch err {
		case service.ErrEmptyMessage:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		case service.ErrConversationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.Error("Error sending message", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        aiMessage.ToResponse(),
		"conversationId": conversationID,
	})
}

// ListConversations returns the caller's conversations, most recently
// updated first.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting conversations", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	responses := make([]models.ConversationResponse, len(conversations))
	for i := range conversations {
		responses[i] = conversations[i].ToResponse()
	}
	c.JSON(http.StatusOK, responses)
}

// GetConversationMessages returns the ordered messages of one owned
// conversation.
func (h *ChatHandler) GetConversationMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	messages, err := h.chatService.GetConversationMessages(userID, uint(conversationID))
	if err != nil {
		switch err {
		case service.ErrConversationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.Error("Error getting conversation messages", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	c.JSON(http.StatusOK, responses)
}

// GetHistory returns every message across the caller's conversations,
// annotated with its conversation ID.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	messages, err := h.chatService.GetHistory(userID)
	if err != nil {
		h.logger.Error("Error getting chat history", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	responses := make([]models.HistoryMessageResponse, len(messages))
	for i := range messages {
		responses[i] = models.HistoryMessageResponse{
			MessageResponse: messages[i].ToResponse(),
			ConversationID:  messages[i].ConversationID,
		}
	}
	c.JSON(http.StatusOK, responses)
}
