package repository

import (
	"context"

	"lexia-api/internal/domain/entity"
)

// ConversationRepository persists conversations and their transcripts.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	// GetByID returns nil, nil when the conversation does not exist.
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// GetByIDForUpdate locks the conversation row so appends serialize and
	// the transcript plus its summary metadata stay consistent.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Conversation, error)
	Update(ctx context.Context, conversation *entity.Conversation) error
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.Conversation], error)
}

// MessageRepository persists transcript messages. Messages are append-only;
// there is deliberately no update or delete.
type MessageRepository interface {
	CreateBatch(ctx context.Context, messages []*entity.Message) error
	ListByConversation(ctx context.Context, conversationID string, pagination Pagination) (*PagedResult[*entity.Message], error)
}
