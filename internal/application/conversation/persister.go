package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/metrics"
)

// Persister appends validated messages to a conversation transcript and keeps
// the summary metadata consistent with it.
type Persister struct {
	txMgr    repository.Transactor
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
}

// NewPersister creates a persister.
func NewPersister(
	txMgr repository.Transactor,
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
) *Persister {
	return &Persister{
		txMgr:    txMgr,
		convRepo: convRepo,
		msgRepo:  msgRepo,
	}
}

// AppendMessages appends the batch in order and bumps message_count and
// last_message_at in the same transaction, so a reader never sees one without
// the other. An empty batch succeeds without touching anything. Duplicate
// submissions append again; deduplication is the caller's concern.
func (p *Persister) AppendMessages(ctx context.Context, conversationID, userID string, msgs []*entity.Message) (int, error) {
	if len(msgs) == 0 {
		return 0, nil
	}

	err := p.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		conv, err := p.convRepo.GetByIDForUpdate(txCtx, conversationID)
		if err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to load conversation")
		}
		if conv == nil || conv.OwnerID != userID {
			return errors.ErrConversationNotFound
		}

		now := time.Now()
		for i, msg := range msgs {
			if msg.ID == "" {
				msg.ID = uuid.NewString()
			}
			msg.ConversationID = conversationID
			msg.Position = conv.MessageCount + i
			msg.CreatedAt = now
		}

		if err := p.msgRepo.CreateBatch(txCtx, msgs); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to append messages")
		}

		// incremented by the batch size, never recomputed
		conv.MessageCount += len(msgs)
		conv.LastMessageAt = &now
		if err := p.convRepo.Update(txCtx, conv); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to update conversation metadata")
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, msg := range msgs {
		metrics.MessagesAppended.WithLabelValues(string(msg.Role)).Inc()
	}
	return len(msgs), nil
}
