package repository

import (
	"errors"

	"support-chat-demo/backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmptyContent  = errors.New("message content must not be empty")
	ErrInvalidSender = errors.New("sender must be user or ai")
)

// MessageRepository is the persistence port for messages. The store is
// append-only: no operation updates or deletes an existing message.
type MessageRepository interface {
	Append(conversationID uint, content string, sender models.Sender) (*models.Message, error)
	ListByConversation(conversationID uint) ([]models.Message, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Append(conversationID uint, content string, sender models.Sender) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if !sender.Valid() {
		return nil, ErrInvalidSender
	}
	message := models.Message{
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
	}
	if err := r.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByConversation returns messages ascending by created_at. The id
// tiebreak keeps insertion order stable when timestamps collide at
// coarse clock resolution.
func (r *GormMessageRepository) ListByConversation(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
