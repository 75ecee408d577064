package models

import (
	"time"
)

// titleLimit is the number of leading characters of the first message
// used as a conversation title.
const titleLimit = 30

// Conversation is an owned thread of messages. The owner never changes
// after creation; updated_at is bumped once per appended turn and is
// the sort key for conversation listings.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationResponse is the conversation shape returned by the chat API.
type ConversationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToResponse converts a Conversation to its API representation.
func (c *Conversation) ToResponse() ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// TitleFromContent derives a conversation title from the first message:
// the leading 30 characters, with "..." appended when truncated. The
// title is set once at creation and never revised.
func TitleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) <= titleLimit {
		return content
	}
	return string(runes[:titleLimit]) + "..."
}
