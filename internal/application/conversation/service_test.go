package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexia-api/internal/domain/entity"
	"lexia-api/internal/domain/repository"
	apperrors "lexia-api/pkg/errors"
)

type fakeGate struct {
	allowed bool
	err     error
}

func (g fakeGate) CanAttachToCase(ctx context.Context, userID, caseID string, required entity.Capability) (bool, error) {
	return g.allowed, g.err
}

func newTestConversationService(gate CaseGate) (*Service, *fakeConvRepo, *fakeMsgRepo) {
	convRepo := newFakeConvRepo()
	msgRepo := &fakeMsgRepo{}
	persister := NewPersister(passTx{}, convRepo, msgRepo)
	svc := NewService(convRepo, msgRepo, gate, NewValidator(DraftingTools()), persister)
	return svc, convRepo, msgRepo
}

func TestCreateConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("standalone conversation needs no case", func(t *testing.T) {
		svc, _, _ := newTestConversationService(fakeGate{allowed: false})

		conv, err := svc.CreateConversation(ctx, "user-1", nil)
		require.NoError(t, err)
		assert.Equal(t, "user-1", conv.OwnerID)
		assert.Nil(t, conv.CaseID)
		assert.Zero(t, conv.MessageCount)
	})

	t.Run("attaching requires ver on the case", func(t *testing.T) {
		svc, convRepo, _ := newTestConversationService(fakeGate{allowed: false})

		caseID := "case-1"
		_, err := svc.CreateConversation(ctx, "user-1", &caseID)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.AsAppError(err).Code)
		assert.Empty(t, convRepo.conversations)
	})

	t.Run("granted user attaches", func(t *testing.T) {
		svc, _, _ := newTestConversationService(fakeGate{allowed: true})

		caseID := "case-1"
		conv, err := svc.CreateConversation(ctx, "user-1", &caseID)
		require.NoError(t, err)
		require.NotNil(t, conv.CaseID)
		assert.Equal(t, "case-1", *conv.CaseID)
	})
}

func TestGetConversation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestConversationService(fakeGate{allowed: true})

	conv, err := svc.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	got, err := svc.GetConversation(ctx, conv.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = svc.GetConversation(ctx, conv.ID, "user-2")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConversationNotFound, apperrors.AsAppError(err).Code)
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("valid replay lands in the transcript", func(t *testing.T) {
		svc, _, msgRepo := newTestConversationService(fakeGate{allowed: true})
		conv, err := svc.CreateConversation(ctx, "user-1", nil)
		require.NoError(t, err)

		stored, err := svc.Reconcile(ctx, conv.ID, "user-1", []IncomingMessage{
			{Role: "user", Content: "los hechos son estos"},
			{Role: "assistant", Content: "¿Cuáles se admiten?"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, stored)
		assert.Len(t, msgRepo.messages, 2)
	})

	t.Run("a rejected batch persists nothing", func(t *testing.T) {
		svc, _, msgRepo := newTestConversationService(fakeGate{allowed: true})
		conv, err := svc.CreateConversation(ctx, "user-1", nil)
		require.NoError(t, err)

		_, err = svc.Reconcile(ctx, conv.ID, "user-1", []IncomingMessage{
			{Role: "user", Content: "mensaje válido"},
			{Role: "oracle", Content: "rol inexistente"},
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidationFailed, apperrors.AsAppError(err).Code)
		assert.Empty(t, msgRepo.messages)

		after, err := svc.GetConversation(ctx, conv.ID, "user-1")
		require.NoError(t, err)
		assert.Zero(t, after.MessageCount)
	})

	t.Run("empty replay is a harmless no-op", func(t *testing.T) {
		svc, _, _ := newTestConversationService(fakeGate{allowed: true})
		conv, err := svc.CreateConversation(ctx, "user-1", nil)
		require.NoError(t, err)

		stored, err := svc.Reconcile(ctx, conv.ID, "user-1", nil)
		require.NoError(t, err)
		assert.Zero(t, stored)
	})
}

func TestListMessages(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestConversationService(fakeGate{allowed: true})

	conv, err := svc.CreateConversation(ctx, "user-1", nil)
	require.NoError(t, err)

	_, err = svc.Reconcile(ctx, conv.ID, "user-1", []IncomingMessage{
		{Role: "user", Content: "uno"},
		{Role: "assistant", Content: "dos"},
	})
	require.NoError(t, err)

	page, err := svc.ListMessages(ctx, conv.ID, "user-1", repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)

	// a stranger cannot even list
	_, err = svc.ListMessages(ctx, conv.ID, "user-2", repository.NewPagination(1, 20))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConversationNotFound, apperrors.AsAppError(err).Code)
}
