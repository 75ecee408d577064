package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-chat-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestResponder(baseURL string) *OpenAIResponder {
	return NewOpenAIResponder(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "openai/gpt-3.5-turbo",
		Timeout: 5 * time.Second,
	}, logger.New(logger.DefaultConfig()))
}

func TestGenerateReplyReturnsCompletion(t *testing.T) {
	var captured completionRequest
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  You can reset it from settings.  "}},
			},
		})
	})

	responder := newTestResponder(server.URL)
	reply := responder.GenerateReply(context.Background(), "How do I reset my password?")

	assert.Equal(t, "You can reset it from settings.", reply)

	// One system turn plus the latest user message, nothing else
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "customer support")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "How do I reset my password?", captured.Messages[1].Content)
	assert.Equal(t, "openai/gpt-3.5-turbo", captured.Model)
}

func TestGenerateReplyFallsBackOnServerError(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	})

	responder := newTestResponder(server.URL)
	reply := responder.GenerateReply(context.Background(), "hello")

	assert.Equal(t, FallbackReply, reply)
}

func TestGenerateReplyFallsBackOnEmptyChoices(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	responder := newTestResponder(server.URL)
	reply := responder.GenerateReply(context.Background(), "hello")

	assert.Equal(t, FallbackReply, reply)
}

func TestGenerateReplyShortCircuitsWhenCircuitOpens(t *testing.T) {
	var requests int
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "upstream down", http.StatusInternalServerError)
	})

	responder := newTestResponder(server.URL)
	for i := 0; i < 10; i++ {
		assert.Equal(t, FallbackReply, responder.GenerateReply(context.Background(), "hello"))
	}

	// The breaker opens after its failure threshold; later calls never
	// reach the server but the caller still gets the fallback.
	assert.Less(t, requests, 10)
}
