package conversation

import (
	"context"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/logger"
)

// CaseGate answers whether a user may attach a resource to a case.
type CaseGate interface {
	CanAttachToCase(ctx context.Context, userID, caseID string, required entity.Capability) (bool, error)
}

// Service manages conversations and the transcript reconcile flow.
type Service struct {
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
	gate      CaseGate
	validator *Validator
	persister *Persister
}

// NewService creates the conversation service.
func NewService(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	gate CaseGate,
	validator *Validator,
	persister *Persister,
) *Service {
	return &Service{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		gate:      gate,
		validator: validator,
		persister: persister,
	}
}

// CreateConversation creates an empty transcript, optionally attached to a
// case the user can see.
func (s *Service) CreateConversation(ctx context.Context, userID string, caseID *string) (*entity.Conversation, error) {
	if caseID != nil {
		allowed, err := s.gate.CanAttachToCase(ctx, userID, *caseID, entity.CapabilityVer)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, errors.ErrPermissionDenied
		}
	}

	conv := entity.NewConversation(userID, caseID)
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create conversation")
	}

	logger.Info(ctx, "conversation created",
		"conversation_id", conv.ID,
		"attached", caseID != nil,
	)
	return conv, nil
}

// GetConversation returns the conversation when it exists and belongs to the
// user.
func (s *Service) GetConversation(ctx context.Context, conversationID, userID string) (*entity.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load conversation")
	}
	if conv == nil || conv.OwnerID != userID {
		return nil, errors.ErrConversationNotFound
	}
	return conv, nil
}

// ListMessages pages through a conversation's transcript in position order.
func (s *Service) ListMessages(ctx context.Context, conversationID, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Message], error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	result, err := s.msgRepo.ListByConversation(ctx, conversationID, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list messages")
	}
	return result, nil
}

// Reconcile validates a client-replayed transcript batch and appends it.
// Clients call this after a streamed exchange finishes, to cover the case
// where the server-side write never landed; an empty batch is a successful
// no-op, so blind replays are harmless.
func (s *Service) Reconcile(ctx context.Context, conversationID, userID string, incoming []IncomingMessage) (int, error) {
	validated, err := s.validator.Validate(incoming)
	if err != nil {
		return 0, err
	}

	stored, err := s.persister.AppendMessages(ctx, conversationID, userID, validated)
	if err != nil {
		return 0, err
	}

	if stored > 0 {
		logger.Info(ctx, "transcript reconciled",
			"conversation_id", conversationID,
			"stored", stored,
		)
	}
	return stored, nil
}
