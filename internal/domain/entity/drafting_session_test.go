package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facts(contenido string) *StepFacts {
	return &StepFacts{Contenido: contenido}
}

func TestSessionStateMerge(t *testing.T) {
	t.Run("update only touches present variants", func(t *testing.T) {
		base := SessionState{
			HechosAdmitidos: facts("pagó parcialmente"),
			Defensas:        facts("prescripción"),
		}
		merged := base.Merge(SessionState{
			HechosNegados: facts("niega la entrega"),
		})

		require.NotNil(t, merged.HechosAdmitidos)
		assert.Equal(t, "pagó parcialmente", merged.HechosAdmitidos.Contenido)
		require.NotNil(t, merged.HechosNegados)
		assert.Equal(t, "niega la entrega", merged.HechosNegados.Contenido)
		require.NotNil(t, merged.Defensas)
		assert.Nil(t, merged.Excepciones)
	})

	t.Run("present variant overwrites its own slot", func(t *testing.T) {
		base := SessionState{HechosAdmitidos: facts("v1")}
		merged := base.Merge(SessionState{HechosAdmitidos: facts("v2")})

		require.NotNil(t, merged.HechosAdmitidos)
		assert.Equal(t, "v2", merged.HechosAdmitidos.Contenido)
	})

	t.Run("empty contenido is a real answer, not an absence", func(t *testing.T) {
		merged := SessionState{}.Merge(SessionState{Excepciones: facts("")})

		require.NotNil(t, merged.Excepciones)
		assert.Equal(t, "", merged.Excepciones.Contenido)
	})

	t.Run("merge copies the variant instead of aliasing it", func(t *testing.T) {
		update := SessionState{Defensas: facts("original")}
		merged := SessionState{}.Merge(update)

		update.Defensas.Contenido = "mutated"
		assert.Equal(t, "original", merged.Defensas.Contenido)
	})
}

func TestSessionStateNextStep(t *testing.T) {
	tests := []struct {
		name  string
		state SessionState
		want  Step
	}{
		{"empty state starts at first collection step", SessionState{}, StepHechosAdmitidos},
		{
			"first unanswered step wins",
			SessionState{HechosAdmitidos: facts("a")},
			StepHechosNegados,
		},
		{
			"gaps are revisited in order",
			SessionState{HechosAdmitidos: facts("a"), Defensas: facts("d")},
			StepHechosNegados,
		},
		{
			"all answered means ready",
			SessionState{
				HechosAdmitidos: facts("a"),
				HechosNegados:   facts("n"),
				Defensas:        facts("d"),
				Excepciones:     facts(""),
			},
			StepReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.NextStep())
		})
	}
}

func TestSessionStateMissingSteps(t *testing.T) {
	state := SessionState{HechosNegados: facts("n")}
	assert.Equal(t,
		[]Step{StepHechosAdmitidos, StepDefensas, StepExcepciones},
		state.MissingSteps(),
	)

	full := SessionState{
		HechosAdmitidos: facts("a"),
		HechosNegados:   facts("n"),
		Defensas:        facts("d"),
		Excepciones:     facts("e"),
	}
	assert.Empty(t, full.MissingSteps())
}

func TestTrimRawInput(t *testing.T) {
	t.Run("short input passes through untouched", func(t *testing.T) {
		assert.Equal(t, "demanda breve", TrimRawInput("demanda breve"))
	})

	t.Run("cap counts runes, not bytes", func(t *testing.T) {
		// multibyte characters: byte length is far over the cap even when
		// the rune count is exactly at it
		in := strings.Repeat("ñ", RawInputMaxChars)
		assert.Equal(t, in, TrimRawInput(in))

		over := in + "ñ"
		got := TrimRawInput(over)
		assert.Equal(t, in, got)
	})
}

func TestNewDraftingSession(t *testing.T) {
	caseID := "3f0c1a9e-0000-0000-0000-000000000001"
	s := NewDraftingSession("owner-1", &caseID, "texto de la demanda")

	assert.Equal(t, StepInit, s.CurrentStep)
	assert.Equal(t, "owner-1", s.OwnerID)
	require.NotNil(t, s.CaseID)
	assert.False(t, s.Completed())
	assert.Empty(t, s.State.Variant(StepHechosAdmitidos))
}

func TestValidStep(t *testing.T) {
	for _, s := range []Step{StepInit, StepHechosAdmitidos, StepHechosNegados, StepDefensas, StepExcepciones, StepReady, StepCompleted} {
		assert.True(t, ValidStep(s), string(s))
	}
	assert.False(t, ValidStep(Step("hechos")))
	assert.False(t, ValidStep(Step("")))
}

func TestCapabilityAllows(t *testing.T) {
	assert.True(t, CapabilityVer.Allows(CapabilityVer))
	assert.True(t, CapabilityEditar.Allows(CapabilityEditar))
	assert.True(t, CapabilityEditar.Allows(CapabilityVer))
	assert.False(t, CapabilityVer.Allows(CapabilityEditar))
}
