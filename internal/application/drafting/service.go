package drafting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	"lexia-api/internal/domain/service"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/logger"
	"lexia-api/pkg/metrics"
)

// Cache is the read-cache port for derived views.
type Cache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	InvalidateSession(ctx context.Context, sessionID string) error
}

const consolidatedCacheTTL = 10 * time.Minute

// AdvanceResult is the outcome of a step advance. Missing lists the
// collection steps still unanswered; a non-empty Missing is a normal
// incomplete outcome, not an error.
type AdvanceResult struct {
	Session *entity.DraftingSession
	Missing []entity.Step
}

// Service manages the drafting session lifecycle.
type Service struct {
	txMgr       repository.Transactor
	sessionRepo repository.DraftingSessionRepository
	gate        *PermissionGate
	cache       Cache
	audit       service.AuditSink
}

// NewService creates the drafting service.
func NewService(
	txMgr repository.Transactor,
	sessionRepo repository.DraftingSessionRepository,
	gate *PermissionGate,
	cache Cache,
	audit service.AuditSink,
) *Service {
	return &Service{
		txMgr:       txMgr,
		sessionRepo: sessionRepo,
		gate:        gate,
		cache:       cache,
		audit:       audit,
	}
}

// CreateSession opens a drafting session, optionally attached to a case. The
// permission check runs before any write, so a denial persists nothing.
func (s *Service) CreateSession(ctx context.Context, userID string, caseID *string, rawInput string) (*entity.DraftingSession, error) {
	attached := "adhoc"
	if caseID != nil {
		allowed, err := s.gate.CanAttachToCase(ctx, userID, *caseID, entity.CapabilityEditar)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, errors.ErrPermissionDenied
		}
		attached = "case"
	}

	session := entity.NewDraftingSession(userID, caseID, rawInput)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create drafting session")
	}

	metrics.DraftingSessionsCreated.WithLabelValues(attached).Inc()
	s.audit.Publish(ctx, service.AuditEvent{
		UserID:       userID,
		Action:       service.AuditActionSessionCreated,
		ResourceType: "drafting_session",
		ResourceID:   session.ID,
		OccurredAt:   time.Now(),
	})

	logger.Info(ctx, "drafting session created",
		"session_id", session.ID,
		"attached", attached,
	)
	return session, nil
}

// GetSession returns the session when it exists and belongs to the user.
// Ownership mismatches read as not-found so session ids cannot be probed.
func (s *Service) GetSession(ctx context.Context, sessionID, userID string) (*entity.DraftingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load drafting session")
	}
	if session == nil || session.OwnerID != userID {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

// ListSessions pages through the user's sessions.
func (s *Service) ListSessions(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.DraftingSession], error) {
	result, err := s.sessionRepo.ListByOwner(ctx, userID, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list drafting sessions")
	}
	return result, nil
}

// AdvanceStep merges a state update into the stored state and recomputes the
// current step. The merge happens under a row lock against the freshest
// stored state, so concurrent advances cannot drop each other's variants.
func (s *Service) AdvanceStep(ctx context.Context, sessionID, userID string, update entity.SessionState) (*AdvanceResult, error) {
	var result *AdvanceResult

	err := s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessionRepo.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to load drafting session")
		}
		if session == nil || session.OwnerID != userID {
			return errors.ErrSessionNotFound
		}
		if session.Completed() {
			return errors.ErrSessionCompleted
		}

		fromStep := session.CurrentStep
		session.State = session.State.Merge(update)
		session.CurrentStep = session.State.NextStep()
		session.UpdatedAt = time.Now()

		if err := s.sessionRepo.Update(txCtx, session); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to update drafting session")
		}

		metrics.DraftingStepAdvances.WithLabelValues(string(fromStep), string(session.CurrentStep)).Inc()
		result = &AdvanceResult{
			Session: session,
			Missing: session.State.MissingSteps(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Consolidate returns the derived facts view for the stored state. It works
// at any step and never mutates the session; before all steps are answered
// it simply returns a partial view. Results are read-cached per state
// version, so any write to the session naturally misses the cache.
func (s *Service) Consolidate(ctx context.Context, sessionID, userID string) (*entity.ConsolidatedFacts, error) {
	session, err := s.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("consolidated:%s:%d", session.ID, session.UpdatedAt.UnixNano())
	data, err := s.cache.GetOrLoadSafe(ctx, key, consolidatedCacheTTL, func() (interface{}, error) {
		return Consolidate(session.State), nil
	})
	if err != nil {
		// cache trouble never blocks a pure derivation
		logger.Warn(ctx, "consolidated-facts cache unavailable",
			"session_id", session.ID,
			"error", err.Error(),
		)
		facts := Consolidate(session.State)
		return &facts, nil
	}

	var facts entity.ConsolidatedFacts
	if err := json.Unmarshal(data, &facts); err != nil {
		facts = Consolidate(session.State)
	}
	return &facts, nil
}

// Complete moves a ready session to its terminal step.
func (s *Service) Complete(ctx context.Context, sessionID, userID string) (*entity.DraftingSession, error) {
	var completed *entity.DraftingSession

	err := s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessionRepo.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to load drafting session")
		}
		if session == nil || session.OwnerID != userID {
			return errors.ErrSessionNotFound
		}
		if session.Completed() {
			return errors.ErrSessionCompleted
		}
		if session.CurrentStep != entity.StepReady {
			return errors.ErrConflict.WithDetail(
				fmt.Sprintf("session is at step %s, not ready", session.CurrentStep))
		}

		session.CurrentStep = entity.StepCompleted
		session.UpdatedAt = time.Now()
		if err := s.sessionRepo.Update(txCtx, session); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to complete drafting session")
		}

		completed = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateSession(ctx, completed.ID); err != nil {
		logger.Warn(ctx, "failed to drop cached consolidated facts",
			"session_id", completed.ID,
			"error", err.Error(),
		)
	}

	metrics.DraftingSessionsCompleted.Inc()
	s.audit.Publish(ctx, service.AuditEvent{
		UserID:       userID,
		Action:       service.AuditActionSessionCompleted,
		ResourceType: "drafting_session",
		ResourceID:   completed.ID,
		OccurredAt:   time.Now(),
	})

	logger.Info(ctx, "drafting session completed", "session_id", completed.ID)
	return completed, nil
}
