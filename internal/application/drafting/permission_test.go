package drafting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexia-api/internal/domain/entity"
)

type fakeCaseRepo struct {
	cases  map[string]*entity.LegalCase
	grants map[string]*entity.CasePermission // key caseID+"/"+userID
	err    error
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{
		cases:  make(map[string]*entity.LegalCase),
		grants: make(map[string]*entity.CasePermission),
	}
}

func (r *fakeCaseRepo) GetByID(ctx context.Context, id string) (*entity.LegalCase, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.cases[id], nil
}

func (r *fakeCaseRepo) GetPermission(ctx context.Context, caseID, userID string) (*entity.CasePermission, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.grants[caseID+"/"+userID], nil
}

func TestPermissionGateCanAttachToCase(t *testing.T) {
	ctx := context.Background()

	repo := newFakeCaseRepo()
	repo.cases["case-1"] = &entity.LegalCase{ID: "case-1", OwnerID: "owner", Caratula: "A c/ B"}
	repo.grants["case-1/viewer"] = &entity.CasePermission{CaseID: "case-1", UserID: "viewer", Capability: entity.CapabilityVer}
	repo.grants["case-1/editor"] = &entity.CasePermission{CaseID: "case-1", UserID: "editor", Capability: entity.CapabilityEditar}

	gate := NewPermissionGate(repo)

	tests := []struct {
		name     string
		userID   string
		caseID   string
		required entity.Capability
		want     bool
	}{
		{"owner may edit", "owner", "case-1", entity.CapabilityEditar, true},
		{"owner may view", "owner", "case-1", entity.CapabilityVer, true},
		{"editar grant covers editar", "editor", "case-1", entity.CapabilityEditar, true},
		{"editar grant covers ver", "editor", "case-1", entity.CapabilityVer, true},
		{"ver grant covers ver", "viewer", "case-1", entity.CapabilityVer, true},
		{"ver grant does not cover editar", "viewer", "case-1", entity.CapabilityEditar, false},
		{"no grant denies", "stranger", "case-1", entity.CapabilityVer, false},
		{"missing case denies without error", "owner", "case-404", entity.CapabilityVer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gate.CanAttachToCase(ctx, tt.userID, tt.caseID, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionGateStoreFailure(t *testing.T) {
	repo := newFakeCaseRepo()
	repo.err = errors.New("connection refused")

	gate := NewPermissionGate(repo)
	allowed, err := gate.CanAttachToCase(context.Background(), "u", "c", entity.CapabilityVer)

	require.Error(t, err)
	assert.False(t, allowed)
}
