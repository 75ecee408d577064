package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"support-chat-demo/backend/internal/repository"
	"support-chat-demo/backend/internal/service"
	"support-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedResponder struct {
	reply string
}

func (r *fixedResponder) GenerateReply(ctx context.Context, userMessage string) string {
	return r.reply
}

// fakeAuth stands in for the JWT middleware: it trusts the X-Test-User
// header so handler tests can impersonate users directly.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if _, err := fmt.Sscanf(c.GetHeader("X-Test-User"), "%d", &userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set("userId", userID)
		c.Next()
	}
}

func newChatRouter(reply string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.DefaultConfig())

	chatService := service.NewChatService(
		repository.NewMemoryConversationRepository(),
		repository.NewMemoryMessageRepository(),
		&fixedResponder{reply: reply},
		nil,
		log,
	)
	handler := NewChatHandler(chatService, log)

	r := gin.New()
	chat := r.Group("/chat")
	chat.Use(fakeAuth())
	chat.POST("/send", handler.Send)
	chat.GET("/conversations", handler.ListConversations)
	chat.GET("/conversations/:id", handler.GetConversationMessages)
	chat.GET("/history", handler.GetHistory)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendCreatesConversation(t *testing.T) {
	r := newChatRouter("Certainly, here is how.")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": "How do I export my data?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message struct {
			ID      uint   `json:"id"`
			Content string `json:"content"`
			Sender  string `json:"sender"`
		} `json:"message"`
		ConversationID uint `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ai", resp.Message.Sender)
	assert.Equal(t, "Certainly, here is how.", resp.Message.Content)
	assert.NotZero(t, resp.ConversationID)

	// The new conversation shows up in the listing
	w = doJSON(t, r, http.MethodGet, "/chat/conversations", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conversations []struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conversations))
	require.Len(t, conversations, 1)
	assert.Equal(t, "How do I export my data?", conversations[0].Title)
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	r := newChatRouter("ok")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message is required")
}

func TestSendRequiresAuth(t *testing.T) {
	r := newChatRouter("ok")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendForeignConversationIsNotFound(t *testing.T) {
	r := newChatRouter("ok")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": "mine"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ConversationID uint `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, r, http.MethodPost, "/chat/send", "2",
		gin.H{"message": "not mine", "conversationId": resp.ConversationID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Conversation not found")
}

func TestGetConversationMessages(t *testing.T) {
	r := newChatRouter("the reply")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": "the question"})
	require.Equal(t, http.StatusOK, w.Code)
	var sent struct {
		ConversationID uint `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/chat/conversations/%d", sent.ConversationID), "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var messages []struct {
		Content string `json:"content"`
		Sender  string `json:"sender"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "the question", messages[0].Content)
	assert.Equal(t, "ai", messages[1].Sender)
	assert.Equal(t, "the reply", messages[1].Content)

	// Non-numeric and unknown IDs both read as not found
	w = doJSON(t, r, http.MethodGet, "/chat/conversations/abc", "1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/chat/conversations/999", "1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistoryAnnotatesConversation(t *testing.T) {
	r := newChatRouter("ok")

	w := doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": "first"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/chat/send", "1", gin.H{"message": "second"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/chat/history", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []struct {
		Content        string `json:"content"`
		Sender         string `json:"sender"`
		ConversationID uint   `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 4)
	for _, entry := range history {
		assert.NotZero(t, entry.ConversationID)
	}

	// Another user sees nothing
	w = doJSON(t, r, http.MethodGet, "/chat/history", "2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
