package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	"lexia-api/internal/domain/service"
	apperrors "lexia-api/pkg/errors"
)

type fakeSessionRepo struct {
	sessions map[string]*entity.DraftingSession
	created  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.DraftingSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.DraftingSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	copied := *session
	r.sessions[session.ID] = &copied
	r.created++
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*entity.DraftingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.DraftingSession, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.DraftingSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) ListByOwner(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.DraftingSession], error) {
	var items []*entity.DraftingSession
	for _, s := range r.sessions {
		if s.OwnerID == ownerID {
			copied := *s
			items = append(items, &copied)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

// passTx runs the function directly; fakes have no real transactions.
type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// loaderCache always misses and serves straight from the loader.
type loaderCache struct{}

func (loaderCache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	v, err := loader()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (loaderCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return nil
}

// downCache simulates an unreachable cache backend.
type downCache struct{}

func (downCache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	return nil, errors.New("redis: connection refused")
}

func (downCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return errors.New("redis: connection refused")
}

type recordingAudit struct {
	events []service.AuditEvent
}

func (a *recordingAudit) Publish(ctx context.Context, event service.AuditEvent) {
	a.events = append(a.events, event)
}

func newTestService(t *testing.T) (*Service, *fakeSessionRepo, *fakeCaseRepo, *recordingAudit) {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	caseRepo := newFakeCaseRepo()
	audit := &recordingAudit{}
	svc := NewService(passTx{}, sessionRepo, NewPermissionGate(caseRepo), loaderCache{}, audit)
	return svc, sessionRepo, caseRepo, audit
}

func errCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	require.Error(t, err)
	return apperrors.AsAppError(err).Code
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("adhoc session needs no case", func(t *testing.T) {
		svc, _, _, audit := newTestService(t)

		session, err := svc.CreateSession(ctx, "user-1", nil, "texto de la demanda")
		require.NoError(t, err)
		assert.Equal(t, entity.StepInit, session.CurrentStep)
		assert.Equal(t, "user-1", session.OwnerID)
		assert.Nil(t, session.CaseID)

		require.Len(t, audit.events, 1)
		assert.Equal(t, service.AuditActionSessionCreated, audit.events[0].Action)
		assert.Equal(t, session.ID, audit.events[0].ResourceID)
	})

	t.Run("attaching requires editar on the case", func(t *testing.T) {
		svc, sessionRepo, caseRepo, audit := newTestService(t)
		caseRepo.cases["case-1"] = &entity.LegalCase{ID: "case-1", OwnerID: "someone-else"}
		caseRepo.grants["case-1/user-1"] = &entity.CasePermission{
			CaseID: "case-1", UserID: "user-1", Capability: entity.CapabilityVer,
		}

		caseID := "case-1"
		_, err := svc.CreateSession(ctx, "user-1", &caseID, "texto")

		assert.Equal(t, apperrors.CodePermissionDenied, errCode(t, err))
		// a denial happens before any write
		assert.Zero(t, sessionRepo.created)
		assert.Empty(t, audit.events)
	})

	t.Run("oversized raw input is trimmed at creation", func(t *testing.T) {
		svc, _, caseRepo, _ := newTestService(t)
		caseRepo.cases["case-1"] = &entity.LegalCase{ID: "case-1", OwnerID: "user-1"}

		caseID := "case-1"
		session, err := svc.CreateSession(ctx, "user-1", &caseID, strings.Repeat("a", 120000))
		require.NoError(t, err)
		assert.Equal(t, entity.StepInit, session.CurrentStep)
		assert.Equal(t, entity.SessionState{}, session.State)
		assert.Len(t, session.RawInput, entity.RawInputMaxChars)
	})

	t.Run("case owner attaches freely", func(t *testing.T) {
		svc, _, caseRepo, _ := newTestService(t)
		caseRepo.cases["case-1"] = &entity.LegalCase{ID: "case-1", OwnerID: "user-1"}

		caseID := "case-1"
		session, err := svc.CreateSession(ctx, "user-1", &caseID, "texto")
		require.NoError(t, err)
		require.NotNil(t, session.CaseID)
		assert.Equal(t, "case-1", *session.CaseID)
	})
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
	require.NoError(t, err)

	t.Run("owner reads the session", func(t *testing.T) {
		got, err := svc.GetSession(ctx, session.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
	})

	t.Run("another user reads not found, not forbidden", func(t *testing.T) {
		_, err := svc.GetSession(ctx, session.ID, "user-2")
		assert.Equal(t, apperrors.CodeSessionNotFound, errCode(t, err))
	})

	t.Run("unknown id reads not found", func(t *testing.T) {
		_, err := svc.GetSession(ctx, uuid.NewString(), "user-1")
		assert.Equal(t, apperrors.CodeSessionNotFound, errCode(t, err))
	})
}

func TestAdvanceStep(t *testing.T) {
	ctx := context.Background()

	t.Run("merge keeps earlier variants and reports missing steps", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)

		result, err := svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			HechosAdmitidos: &entity.StepFacts{Contenido: "recibió la carta documento"},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StepHechosNegados, result.Session.CurrentStep)
		assert.Equal(t,
			[]entity.Step{entity.StepHechosNegados, entity.StepDefensas, entity.StepExcepciones},
			result.Missing,
		)

		// a second advance with a different variant unions, never clobbers
		result, err = svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			Defensas: &entity.StepFacts{Contenido: "pago documentado"},
		})
		require.NoError(t, err)
		require.NotNil(t, result.Session.State.HechosAdmitidos)
		assert.Equal(t, "recibió la carta documento", result.Session.State.HechosAdmitidos.Contenido)
		assert.Equal(t, entity.StepHechosNegados, result.Session.CurrentStep)
		assert.Equal(t,
			[]entity.Step{entity.StepHechosNegados, entity.StepExcepciones},
			result.Missing,
		)
	})

	t.Run("answering everything lands on ready", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)

		result, err := svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			HechosAdmitidos: &entity.StepFacts{Contenido: "a"},
			HechosNegados:   &entity.StepFacts{Contenido: "n"},
			Defensas:        &entity.StepFacts{Contenido: "d"},
			Excepciones:     &entity.StepFacts{Contenido: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StepReady, result.Session.CurrentStep)
		assert.Empty(t, result.Missing)
	})

	t.Run("completed sessions refuse further advances", func(t *testing.T) {
		svc, sessionRepo, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)
		stored := sessionRepo.sessions[session.ID]
		stored.CurrentStep = entity.StepCompleted

		_, err = svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			Defensas: &entity.StepFacts{Contenido: "d"},
		})
		assert.Equal(t, apperrors.CodeSessionCompleted, errCode(t, err))
	})

	t.Run("another user advances nothing", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)

		_, err = svc.AdvanceStep(ctx, session.ID, "user-2", entity.SessionState{
			Defensas: &entity.StepFacts{Contenido: "d"},
		})
		assert.Equal(t, apperrors.CodeSessionNotFound, errCode(t, err))
	})
}

func TestServiceConsolidate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial view at any step", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)

		_, err = svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			HechosAdmitidos: &entity.StepFacts{Contenido: "admite la firma"},
		})
		require.NoError(t, err)

		facts, err := svc.Consolidate(ctx, session.ID, "user-1")
		require.NoError(t, err)
		require.NotNil(t, facts.HechosAdmitidos)
		assert.Equal(t, "admite la firma", *facts.HechosAdmitidos)
		assert.Nil(t, facts.HechosNegados)
	})

	t.Run("cache outage falls back to direct derivation", func(t *testing.T) {
		sessionRepo := newFakeSessionRepo()
		svc := NewService(passTx{}, sessionRepo, NewPermissionGate(newFakeCaseRepo()), downCache{}, &recordingAudit{})

		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)
		_, err = svc.AdvanceStep(ctx, session.ID, "user-1", entity.SessionState{
			Excepciones: &entity.StepFacts{Contenido: "incompetencia"},
		})
		require.NoError(t, err)

		facts, err := svc.Consolidate(ctx, session.ID, "user-1")
		require.NoError(t, err)
		require.NotNil(t, facts.Excepciones)
		assert.Equal(t, "incompetencia", *facts.Excepciones)
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	fullState := entity.SessionState{
		HechosAdmitidos: &entity.StepFacts{Contenido: "a"},
		HechosNegados:   &entity.StepFacts{Contenido: "n"},
		Defensas:        &entity.StepFacts{Contenido: "d"},
		Excepciones:     &entity.StepFacts{Contenido: "e"},
	}

	t.Run("ready sessions complete and audit", func(t *testing.T) {
		svc, _, _, audit := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)
		_, err = svc.AdvanceStep(ctx, session.ID, "user-1", fullState)
		require.NoError(t, err)

		completed, err := svc.Complete(ctx, session.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, entity.StepCompleted, completed.CurrentStep)
		assert.True(t, completed.Completed())

		require.Len(t, audit.events, 2)
		assert.Equal(t, service.AuditActionSessionCompleted, audit.events[1].Action)
	})

	t.Run("not ready refuses as conflict", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)

		_, err = svc.Complete(ctx, session.ID, "user-1")
		assert.Equal(t, apperrors.CodeConflict, errCode(t, err))
	})

	t.Run("completing twice refuses", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		session, err := svc.CreateSession(ctx, "user-1", nil, "texto")
		require.NoError(t, err)
		_, err = svc.AdvanceStep(ctx, session.ID, "user-1", fullState)
		require.NoError(t, err)
		_, err = svc.Complete(ctx, session.ID, "user-1")
		require.NoError(t, err)

		_, err = svc.Complete(ctx, session.ID, "user-1")
		assert.Equal(t, apperrors.CodeSessionCompleted, errCode(t, err))
	})
}

// TestInterviewWorkflow walks the whole happy path a client would drive.
func TestInterviewWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	session, err := svc.CreateSession(ctx, "abogado-1", nil, "La actora reclama $1.200.000 por incumplimiento contractual.")
	require.NoError(t, err)

	answers := []entity.SessionState{
		{HechosAdmitidos: &entity.StepFacts{Contenido: "se admite la existencia del contrato"}},
		{HechosNegados: &entity.StepFacts{Contenido: "se niega la mora imputada"}},
		{Defensas: &entity.StepFacts{Contenido: "cumplimiento íntegro y oportuno"}},
		{Excepciones: &entity.StepFacts{Contenido: ""}},
	}

	var last *AdvanceResult
	for _, update := range answers {
		last, err = svc.AdvanceStep(ctx, session.ID, "abogado-1", update)
		require.NoError(t, err)
	}
	require.NotNil(t, last)
	assert.Equal(t, entity.StepReady, last.Session.CurrentStep)

	facts, err := svc.Consolidate(ctx, session.ID, "abogado-1")
	require.NoError(t, err)
	require.NotNil(t, facts.Excepciones)
	assert.Equal(t, "", *facts.Excepciones)
	require.NotNil(t, facts.Defensas)
	assert.Equal(t, "cumplimiento íntegro y oportuno", *facts.Defensas)

	completed, err := svc.Complete(ctx, session.ID, "abogado-1")
	require.NoError(t, err)
	assert.True(t, completed.Completed())
}
