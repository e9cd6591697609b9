package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
)

// DraftingSessionRepository is the PostgreSQL drafting session store.
type DraftingSessionRepository struct {
	client *Client
}

// NewDraftingSessionRepository creates the repository.
func NewDraftingSessionRepository(client *Client) *DraftingSessionRepository {
	return &DraftingSessionRepository{client: client}
}

func (r *DraftingSessionRepository) Create(ctx context.Context, session *entity.DraftingSession) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftingSessionRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create drafting session: %w", err)
	}
	return nil
}

func (r *DraftingSessionRepository) GetByID(ctx context.Context, id string) (*entity.DraftingSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.DraftingSessionRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var session entity.DraftingSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get drafting session: %w", err)
	}
	return &session, nil
}

func (r *DraftingSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.DraftingSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.DraftingSessionRepository.GetByIDForUpdate")
	defer span.End()

	db := getDB(ctx, r.client.db).Clauses(clause.Locking{Strength: "UPDATE"})
	var session entity.DraftingSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get drafting session for update: %w", err)
	}
	return &session, nil
}

func (r *DraftingSessionRepository) Update(ctx context.Context, session *entity.DraftingSession) error {
	ctx, span := tracer.Start(ctx, "postgres.DraftingSessionRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update drafting session: %w", err)
	}
	return nil
}

func (r *DraftingSessionRepository) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.DraftingSession], error) {
	ctx, span := tracer.Start(ctx, "postgres.DraftingSessionRepository.ListByOwner")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.DraftingSession{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count drafting sessions: %w", err)
	}

	var sessions []*entity.DraftingSession
	err := db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&sessions).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list drafting sessions: %w", err)
	}

	return repository.NewPagedResult(sessions, total, pagination), nil
}
