package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSenderValid(t *testing.T) {
	assert.True(t, SenderUser.Valid())
	assert.True(t, SenderAI.Valid())
	assert.False(t, Sender("assistant").Valid())
	assert.False(t, Sender("").Valid())
}

func TestMessageToResponse(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	message := Message{
		ID:             7,
		ConversationID: 3,
		Sender:         SenderAI,
		Content:        "reply",
		CreatedAt:      created,
	}

	resp := message.ToResponse()
	assert.Equal(t, uint(7), resp.ID)
	assert.Equal(t, "reply", resp.Content)
	assert.Equal(t, SenderAI, resp.Sender)
	assert.Equal(t, created, resp.Timestamp)
}
