package drafting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexia-api/internal/domain/entity"
)

func TestConsolidate(t *testing.T) {
	t.Run("unanswered steps stay nil", func(t *testing.T) {
		got := Consolidate(entity.SessionState{})

		assert.Nil(t, got.HechosAdmitidos)
		assert.Nil(t, got.HechosNegados)
		assert.Nil(t, got.Defensas)
		assert.Nil(t, got.Excepciones)
	})

	t.Run("an empty answer is distinct from no answer", func(t *testing.T) {
		got := Consolidate(entity.SessionState{
			HechosAdmitidos: &entity.StepFacts{Contenido: ""},
		})

		require.NotNil(t, got.HechosAdmitidos)
		assert.Equal(t, "", *got.HechosAdmitidos)
		assert.Nil(t, got.HechosNegados)
	})

	t.Run("answered steps carry their contenido", func(t *testing.T) {
		got := Consolidate(entity.SessionState{
			HechosNegados: &entity.StepFacts{Contenido: "niega la mora"},
			Excepciones:   &entity.StepFacts{Contenido: "incompetencia"},
		})

		require.NotNil(t, got.HechosNegados)
		assert.Equal(t, "niega la mora", *got.HechosNegados)
		require.NotNil(t, got.Excepciones)
		assert.Equal(t, "incompetencia", *got.Excepciones)
		assert.Nil(t, got.HechosAdmitidos)
		assert.Nil(t, got.Defensas)
	})

	t.Run("same state always derives the same view", func(t *testing.T) {
		state := entity.SessionState{
			HechosAdmitidos: &entity.StepFacts{Contenido: "recibió la mercadería"},
			Defensas:        &entity.StepFacts{Contenido: "pago documentado"},
		}

		first := Consolidate(state)
		second := Consolidate(state)
		assert.Equal(t, first, second)
	})

	t.Run("view does not alias the state", func(t *testing.T) {
		state := entity.SessionState{
			Defensas: &entity.StepFacts{Contenido: "original"},
		}
		got := Consolidate(state)

		state.Defensas.Contenido = "mutated"
		assert.Equal(t, "original", *got.Defensas)
	})
}
