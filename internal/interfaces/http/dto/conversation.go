package dto

import (
	"encoding/json"
	"time"

	"lexia-api/internal/application/conversation"
	"lexia-api/internal/domain/entity"
)

// CreateConversationRequest opens a conversation.
type CreateConversationRequest struct {
	CaseID *string `json:"case_id,omitempty"`
}

// ConversationResponse is the conversation view.
type ConversationResponse struct {
	ConversationID string     `json:"conversation_id"`
	CaseID         *string    `json:"case_id,omitempty"`
	MessageCount   int        `json:"message_count"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewConversationResponse converts a conversation entity.
func NewConversationResponse(c *entity.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ConversationID: c.ID,
		CaseID:         c.CaseID,
		MessageCount:   c.MessageCount,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
	}
}

// AppendMessagesRequest replays a transcript batch for persistence.
type AppendMessagesRequest struct {
	Messages []conversation.IncomingMessage `json:"messages"`
}

// AppendMessagesResponse acknowledges a transcript write.
type AppendMessagesResponse struct {
	OK     bool `json:"ok"`
	Stored int  `json:"stored"`
}

// MessageResponse is one transcript entry.
type MessageResponse struct {
	ID         string          `json:"id"`
	Position   int             `json:"position"`
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	ToolCalls  json.RawMessage `json:"tool_calls,omitempty"`
	ToolCallID *string         `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewMessageResponse converts a message entity.
func NewMessageResponse(m *entity.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		Position:   m.Position,
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCalls:  m.ToolCalls,
		ToolCallID: m.ToolCallID,
		CreatedAt:  m.CreatedAt,
	}
}

// MessageListResponse is one page of transcript entries.
type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
}
