package repository

import (
	"sort"
	"sync"
	"time"

	"support-chat-demo/backend/internal/models"
)

// MemoryConversationRepository is an in-memory ConversationRepository
// for tests and for running the server without Postgres.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[uint]*models.Conversation
	nextID        uint
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[uint]*models.Conversation),
		nextID:        1,
	}
}

func (r *MemoryConversationRepository) Create(conversation *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	conversation.ID = r.nextID
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	r.nextID++

	stored := *conversation
	r.conversations[conversation.ID] = &stored
	return nil
}

func (r *MemoryConversationRepository) FindOwned(id, userID uint) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conversation, exists := r.conversations[id]
	if !exists || conversation.UserID != userID {
		return nil, ErrNotFound
	}
	found := *conversation
	return &found, nil
}

func (r *MemoryConversationRepository) ListOwned(userID uint) ([]models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conversations []models.Conversation
	for _, conversation := range r.conversations {
		if conversation.UserID == userID {
			conversations = append(conversations, *conversation)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		if !conversations[i].UpdatedAt.Equal(conversations[j].UpdatedAt) {
			return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
		}
		return conversations[i].ID > conversations[j].ID
	})
	return conversations, nil
}

func (r *MemoryConversationRepository) Touch(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conversation, exists := r.conversations[id]; exists {
		conversation.UpdatedAt = time.Now()
	}
	return nil
}

// MemoryMessageRepository is an in-memory MessageRepository. Messages
// are held in insertion order, which also serves as the created_at
// tiebreak.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []models.Message
	nextID   uint
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{nextID: 1}
}

func (r *MemoryMessageRepository) Append(conversationID uint, content string, sender models.Sender) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if !sender.Valid() {
		return nil, ErrInvalidSender
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	message := models.Message{
		ID:             r.nextID,
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	r.nextID++
	r.messages = append(r.messages, message)
	return &message, nil
}

func (r *MemoryMessageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var messages []models.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}
