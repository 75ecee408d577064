package repository

import (
	"errors"
	"time"

	"support-chat-demo/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so
// that conversation IDs leak nothing about other users.
var ErrNotFound = errors.New("record not found")

// ConversationRepository is the persistence port for conversations.
type ConversationRepository interface {
	Create(conversation *models.Conversation) error
	FindOwned(id, userID uint) (*models.Conversation, error)
	ListOwned(userID uint) ([]models.Conversation, error)
	Touch(id uint) error
}

type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *GormConversationRepository) FindOwned(id, userID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *GormConversationRepository) ListOwned(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Touch bumps updated_at to the current time. Redundant calls are
// harmless; updated_at only ever moves forward.
func (r *GormConversationRepository) Touch(id uint) error {
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}
