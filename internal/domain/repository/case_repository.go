package repository

import (
	"context"

	"lexia-api/internal/domain/entity"
)

// CaseRepository reads case ownership and per-user capability grants. The
// drafting core never mutates cases; they belong to the surrounding CRUD
// surface.
type CaseRepository interface {
	// GetByID returns nil, nil when the case does not exist.
	GetByID(ctx context.Context, id string) (*entity.LegalCase, error)
	// GetPermission returns nil, nil when the user has no grant on the case.
	GetPermission(ctx context.Context, caseID, userID string) (*entity.CasePermission, error)
}
