package repository

import (
	"context"

	"lexia-api/internal/domain/entity"
)

// DraftingSessionRepository persists drafting sessions.
type DraftingSessionRepository interface {
	Create(ctx context.Context, session *entity.DraftingSession) error
	// GetByID returns nil, nil when the session does not exist.
	GetByID(ctx context.Context, id string) (*entity.DraftingSession, error)
	// GetByIDForUpdate locks the session row for the duration of the ambient
	// transaction so state merges are read-modify-write on the freshest value.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.DraftingSession, error)
	Update(ctx context.Context, session *entity.DraftingSession) error
	ListByOwner(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.DraftingSession], error)
}
