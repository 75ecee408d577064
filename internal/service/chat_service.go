package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"support-chat-demo/backend/ai"
	"support-chat-demo/backend/internal/models"
	"support-chat-demo/backend/internal/repository"
	"support-chat-demo/backend/pkg/cache"
	"support-chat-demo/backend/pkg/logger"
)

var (
	ErrEmptyMessage         = errors.New("message is required")
	ErrConversationNotFound = errors.New("conversation not found")
)

// ChatService orchestrates one user turn: resolve or create the
// conversation, persist the user message, obtain the automated reply,
// persist it, and bump the conversation's recency.
type ChatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	responder     ai.Responder
	cache         cache.Cache // optional; nil disables list caching
	logger        *logger.Logger
}

// NewChatService creates a new chat service. cache may be nil.
func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	responder ai.Responder,
	listCache cache.Cache,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		responder:     responder,
		cache:         listCache,
		logger:        log,
	}
}

// SendMessage runs the full turn pipeline and returns the AI message
// plus the resolved conversation ID.
//
// The pipeline is sequential and non-transactional: the user message is
// durable before the responder is called, so the user turn always
// precedes the AI turn in the conversation's order regardless of
// responder latency. A crash mid-pipeline can leave a user message
// without a reply; callers retry the whole request.
func (s *ChatService) SendMessage(ctx context.Context, userID uint, content string, conversationID *uint) (*models.Message, uint, error) {
	if content == "" {
		return nil, 0, ErrEmptyMessage
	}

	var conversation *models.Conversation
	if conversationID == nil {
		conversation = &models.Conversation{
			UserID: userID,
			Title:  models.TitleFromContent(content),
		}
		if err := s.conversations.Create(conversation); err != nil {
			return nil, 0, fmt.Errorf("creating conversation: %w", err)
		}
	} else {
		var err error
		conversation, err = s.conversations.FindOwned(*conversationID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, 0, ErrConversationNotFound
			}
			return nil, 0, fmt.Errorf("resolving conversation: %w", err)
		}
	}

	if _, err := s.messages.Append(conversation.ID, content, models.SenderUser); err != nil {
		return nil, 0, fmt.Errorf("appending user message: %w", err)
	}

	// Synchronous; returns fallback text on responder failure, never an error.
	reply := s.responder.GenerateReply(ctx, content)

	aiMessage, err := s.messages.Append(conversation.ID, reply, models.SenderAI)
	if err != nil {
		return nil, 0, fmt.Errorf("appending ai message: %w", err)
	}

	// One touch per turn, after both appends.
	if err := s.conversations.Touch(conversation.ID); err != nil {
		return nil, 0, fmt.Errorf("touching conversation: %w", err)
	}

	s.invalidateListCache(ctx, userID)

	return aiMessage, conversation.ID, nil
}

// ListConversations returns the caller's conversations, most recently
// updated first. Cache errors degrade silently to a store read.
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	key := conversationListKey(userID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var conversations []models.Conversation
			if err := json.Unmarshal([]byte(raw), &conversations); err == nil {
				return conversations, nil
			}
		}
	}

	conversations, err := s.conversations.ListOwned(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(conversations); err == nil {
			if err := s.cache.Set(ctx, key, string(raw)); err != nil {
				s.logger.Warn("Failed to cache conversation list", "user_id", userID, "error", err.Error())
			}
		}
	}
	return conversations, nil
}

// GetConversationMessages returns the ordered messages of a conversation
// the caller owns, ascending by creation time.
func (s *ChatService) GetConversationMessages(userID, conversationID uint) ([]models.Message, error) {
	if _, err := s.conversations.FindOwned(conversationID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.messages.ListByConversation(conversationID)
}

// GetHistory returns every message across the caller's conversations,
// conversation by conversation: conversations most recently updated
// first, messages within each ascending.
func (s *ChatService) GetHistory(userID uint) ([]models.Message, error) {
	conversations, err := s.conversations.ListOwned(userID)
	if err != nil {
		return nil, err
	}

	history := make([]models.Message, 0)
	for _, conversation := range conversations {
		messages, err := s.messages.ListByConversation(conversation.ID)
		if err != nil {
			return nil, err
		}
		history = append(history, messages...)
	}
	return history, nil
}

func (s *ChatService) invalidateListCache(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, conversationListKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate conversation list cache", "user_id", userID, "error", err.Error())
	}
}

func conversationListKey(userID uint) string {
	return fmt.Sprintf("conversations:%d", userID)
}
