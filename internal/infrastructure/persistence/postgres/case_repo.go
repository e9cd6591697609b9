package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"lexia-api/internal/domain/entity"
)

// CaseRepository is the PostgreSQL case store. The drafting API only reads
// cases; Create and Grant exist for bootstrap seeding and tests.
type CaseRepository struct {
	client *Client
}

// NewCaseRepository creates the repository.
func NewCaseRepository(client *Client) *CaseRepository {
	return &CaseRepository{client: client}
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (*entity.LegalCase, error) {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var legalCase entity.LegalCase
	if err := db.First(&legalCase, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &legalCase, nil
}

func (r *CaseRepository) GetPermission(ctx context.Context, caseID, userID string) (*entity.CasePermission, error) {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.GetPermission")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var permission entity.CasePermission
	if err := db.First(&permission, "case_id = ? AND user_id = ?", caseID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get case permission: %w", err)
	}
	return &permission, nil
}

func (r *CaseRepository) Create(ctx context.Context, legalCase *entity.LegalCase) error {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(legalCase).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

func (r *CaseRepository) Grant(ctx context.Context, permission *entity.CasePermission) error {
	ctx, span := tracer.Start(ctx, "postgres.CaseRepository.Grant")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(permission).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to grant case permission: %w", err)
	}
	return nil
}
