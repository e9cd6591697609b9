package postgres

import (
	"context"
	"fmt"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
)

// MessageRepository is the PostgreSQL transcript store. Messages only ever
// get inserted; there is no update path.
type MessageRepository struct {
	client *Client
}

// NewMessageRepository creates the repository.
func NewMessageRepository(client *Client) *MessageRepository {
	return &MessageRepository{client: client}
}

func (r *MessageRepository) CreateBatch(ctx context.Context, messages []*entity.Message) error {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.CreateBatch")
	defer span.End()

	if len(messages) == 0 {
		return nil
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(messages).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create messages: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Message], error) {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.ListByConversation")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.Message{}).Where("conversation_id = ?", conversationID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	var messages []*entity.Message
	err := db.Where("conversation_id = ?", conversationID).
		Order("position ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&messages).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return repository.NewPagedResult(messages, total, pagination), nil
}
