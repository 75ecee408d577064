package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"support-chat-demo/backend/pkg/logger"
	"support-chat-demo/backend/pkg/resilience"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sashabaranov/go-openai"
)

const (
	// systemPrompt frames every completion request. The responder is
	// stateless: only the latest user message is sent, no prior turns.
	systemPrompt = "You are a helpful customer support AI assistant. Provide concise, accurate, " +
		"and friendly responses to user queries. Keep responses under 150 words unless more detail is necessary."

	// FallbackReply is persisted and returned to the caller whenever the
	// completion call fails. A provider outage must not fail the request.
	FallbackReply = "Sorry, I encountered an error processing your request. Please try again later."
)

var errEmptyCompletion = errors.New("completion response contained no choices")

var repliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "support_chat_replies_total",
	Help: "Generated replies by outcome (generated or fallback).",
}, []string{"outcome"})

// Responder produces the automated reply to a user message. It never
// fails: implementations absorb errors and return fallback text.
type Responder interface {
	GenerateReply(ctx context.Context, userMessage string) string
}

// Config holds the settings for the completion client.
type Config struct {
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint, e.g. OpenRouter
	Model   string
	Timeout time.Duration
}

// OpenAIResponder calls an OpenAI-compatible chat-completion endpoint.
type OpenAIResponder struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

// NewOpenAIResponder creates a responder backed by the configured
// completion endpoint, with a circuit breaker around the outbound call.
func NewOpenAIResponder(cfg Config, log *logger.Logger) *OpenAIResponder {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIResponder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("completion"), log),
		log:     log,
	}
}

// GenerateReply returns the completion for userMessage, or FallbackReply
// on any failure of the outbound call.
func (r *OpenAIResponder) GenerateReply(ctx context.Context, userMessage string) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var reply string
	err := r.breaker.Execute(func() error {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errEmptyCompletion
		}
		reply = strings.TrimSpace(resp.Choices[0].Message.Content)
		if reply == "" {
			return errEmptyCompletion
		}
		return nil
	})
	if err != nil {
		r.log.LogError(err, "Completion call failed, substituting fallback reply", "model", r.model)
		repliesTotal.WithLabelValues("fallback").Inc()
		return FallbackReply
	}

	repliesTotal.WithLabelValues("generated").Inc()
	return reply
}
