package entity

import (
	"encoding/json"
	"time"
)

// Conversation is a durable, append-only chat transcript. It may reference a
// case but is addressable on its own; drafting sessions never own it.
type Conversation struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID       string     `json:"owner_id" gorm:"type:uuid;index;not null"`
	CaseID        *string    `json:"case_id,omitempty" gorm:"type:uuid;index"`
	MessageCount  int        `json:"message_count" gorm:"not null;default:0"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation builds an empty conversation.
func NewConversation(ownerID string, caseID *string) *Conversation {
	now := time.Now()
	return &Conversation{
		OwnerID:   ownerID,
		CaseID:    caseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Message is one immutable transcript entry. Position is assigned at append
// time and fixes the message's place in the transcript forever.
type Message struct {
	ID             string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationID string          `json:"conversation_id" gorm:"type:uuid;index:idx_messages_conv_pos,priority:1;not null"`
	Position       int             `json:"position" gorm:"index:idx_messages_conv_pos,priority:2;not null"`
	Role           Role            `json:"role" gorm:"type:varchar(16);not null"`
	Content        string          `json:"content" gorm:"type:text;not null"`
	ToolCalls      json.RawMessage `json:"tool_calls,omitempty" gorm:"type:jsonb"`
	ToolCallID     *string         `json:"tool_call_id,omitempty" gorm:"type:varchar(64)"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

// ToolCall is one declared tool invocation carried by an assistant message.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}
