// Package drafting implements the legal-answer drafting workflow: case
// permission checks, the session step machine, fact consolidation and the
// LLM-driven interview.
package drafting

import (
	"context"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	"lexia-api/pkg/errors"
)

// PermissionGate decides whether a user may attach work to a case. A denial
// is an answer, not an error; only infrastructure failure returns err.
type PermissionGate struct {
	caseRepo repository.CaseRepository
}

// NewPermissionGate creates a gate over the case store.
func NewPermissionGate(caseRepo repository.CaseRepository) *PermissionGate {
	return &PermissionGate{caseRepo: caseRepo}
}

// CanAttachToCase reports whether userID holds the required capability on
// caseID. The case owner always may; anybody else needs a grant whose
// capability covers the required one. A missing case denies rather than
// erroring, so callers cannot probe for case existence.
func (g *PermissionGate) CanAttachToCase(ctx context.Context, userID, caseID string, required entity.Capability) (bool, error) {
	legalCase, err := g.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeDatabaseError, "failed to load case")
	}
	if legalCase == nil {
		return false, nil
	}
	if legalCase.OwnerID == userID {
		return true, nil
	}

	grant, err := g.caseRepo.GetPermission(ctx, caseID, userID)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeDatabaseError, "failed to load case permission")
	}
	if grant == nil {
		return false, nil
	}
	return grant.Capability.Allows(required), nil
}
