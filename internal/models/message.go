package models

import (
	"time"
)

// Sender identifies which side of a conversation produced a message.
// Exactly two values exist; anything else is rejected at the store boundary.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Valid reports whether s is one of the two known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAI
}

// Message represents a single turn in a conversation. Messages are
// immutable once created; created_at is the ordering key within a
// conversation, with the primary key breaking ties in insertion order.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	Sender         Sender    `json:"sender" gorm:"type:varchar(8)"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageResponse is the message shape returned by the chat API.
type MessageResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryMessageResponse annotates a message with the conversation it
// belongs to, for the cross-conversation history listing.
type HistoryMessageResponse struct {
	MessageResponse
	ConversationID uint `json:"conversationId"`
}

// ToResponse converts a Message to its API representation.
func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		Sender:    m.Sender,
		Timestamp: m.CreatedAt,
	}
}
