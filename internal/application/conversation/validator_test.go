package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexia-api/internal/domain/entity"
	apperrors "lexia-api/pkg/errors"
)

func newTestValidator() *Validator {
	return NewValidator(DraftingTools())
}

func rawArgs(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func assertRejected(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.AsAppError(err).Code)
}

func TestValidateRoles(t *testing.T) {
	v := newTestValidator()

	t.Run("unknown role rejects the batch", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{Role: "system", Content: "hola"}})
		assertRejected(t, err)
	})

	t.Run("user message must carry content and nothing else", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{Role: "user", Content: ""}})
		assertRejected(t, err)

		_, err = v.Validate([]IncomingMessage{{
			Role: "user", Content: "hola", ToolCallID: "call-1",
		}})
		assertRejected(t, err)
	})

	t.Run("assistant message may be text only", func(t *testing.T) {
		out, err := v.Validate([]IncomingMessage{{Role: "assistant", Content: "¿Qué hechos admite?"}})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, entity.RoleAssistant, out[0].Role)
		assert.Empty(t, out[0].ToolCalls)
	})

	t.Run("empty assistant message rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{Role: "assistant"}})
		assertRejected(t, err)
	})
}

func TestValidateToolCalls(t *testing.T) {
	v := newTestValidator()

	valid := IncomingToolCall{
		ID:   "call-1",
		Name: ToolRegistrarHechos,
		Arguments: rawArgs(t, map[string]any{
			"paso":      "hechos_admitidos",
			"contenido": "admite la entrega",
		}),
	}

	t.Run("declared tool with valid args passes", func(t *testing.T) {
		out, err := v.Validate([]IncomingMessage{{
			Role:      "assistant",
			ToolCalls: []IncomingToolCall{valid},
		}})
		require.NoError(t, err)
		require.Len(t, out, 1)

		var calls []entity.ToolCall
		require.NoError(t, json.Unmarshal(out[0].ToolCalls, &calls))
		require.Len(t, calls, 1)
		assert.Equal(t, ToolRegistrarHechos, calls[0].Name)
	})

	t.Run("undeclared tool rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID: "call-1", Name: "borrar_expediente", Arguments: rawArgs(t, map[string]any{}),
			}},
		}})
		assertRejected(t, err)
	})

	t.Run("missing required argument rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolRegistrarHechos,
				Arguments: rawArgs(t, map[string]any{
					"paso": "defensas",
				}),
			}},
		}})
		assertRejected(t, err)
	})

	t.Run("enum violation rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolRegistrarHechos,
				Arguments: rawArgs(t, map[string]any{
					"paso":      "hechos_nuevos",
					"contenido": "x",
				}),
			}},
		}})
		assertRejected(t, err)
	})

	t.Run("undeclared argument rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolConsultarDemanda,
				Arguments: rawArgs(t, map[string]any{
					"consulta": "carta documento",
					"pagina":   2,
				}),
			}},
		}})
		assertRejected(t, err)
	})

	t.Run("integer parameter refuses fractions", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolConsultarDemanda,
				Arguments: rawArgs(t, map[string]any{
					"consulta":       "intereses",
					"max_resultados": 2.5,
				}),
			}},
		}})
		assertRejected(t, err)

		_, err = v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolConsultarDemanda,
				Arguments: rawArgs(t, map[string]any{
					"consulta":       "intereses",
					"max_resultados": 3,
				}),
			}},
		}})
		assert.NoError(t, err)
	})

	t.Run("optional boolean accepts only booleans", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{{
			Role: "assistant",
			ToolCalls: []IncomingToolCall{{
				ID:   "call-1",
				Name: ToolConsolidarHechos,
				Arguments: rawArgs(t, map[string]any{
					"incluir_pendientes": "sí",
				}),
			}},
		}})
		assertRejected(t, err)
	})

	t.Run("tool call without id rejects", func(t *testing.T) {
		noID := valid
		noID.ID = ""
		_, err := v.Validate([]IncomingMessage{{
			Role:      "assistant",
			ToolCalls: []IncomingToolCall{noID},
		}})
		assertRejected(t, err)
	})
}

func TestValidateToolResults(t *testing.T) {
	v := newTestValidator()

	assistantWithCall := IncomingMessage{
		Role: "assistant",
		ToolCalls: []IncomingToolCall{{
			ID:   "call-7",
			Name: ToolConsultarDemanda,
			Arguments: rawArgs(t, map[string]any{
				"consulta": "plazo de pago",
			}),
		}},
	}

	t.Run("tool result must answer a call from the batch", func(t *testing.T) {
		out, err := v.Validate([]IncomingMessage{
			assistantWithCall,
			{Role: "tool", Content: "pasaje hallado en el punto IV", ToolCallID: "call-7"},
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		require.NotNil(t, out[1].ToolCallID)
		assert.Equal(t, "call-7", *out[1].ToolCallID)
	})

	t.Run("tool result for an unknown call rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{
			{Role: "tool", Content: "resultado", ToolCallID: "call-999"},
		})
		assertRejected(t, err)
	})

	t.Run("tool result without id rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{
			assistantWithCall,
			{Role: "tool", Content: "resultado"},
		})
		assertRejected(t, err)
	})

	t.Run("tool result without content rejects", func(t *testing.T) {
		_, err := v.Validate([]IncomingMessage{
			assistantWithCall,
			{Role: "tool", ToolCallID: "call-7"},
		})
		assertRejected(t, err)
	})
}

func TestValidatePreservesOrder(t *testing.T) {
	v := newTestValidator()

	out, err := v.Validate([]IncomingMessage{
		{Role: "user", Content: "la demanda dice que no pagamos"},
		{Role: "assistant", Content: "¿Se admite la falta de pago?"},
		{Role: "user", Content: "no, se pagó en término"},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, entity.RoleUser, out[0].Role)
	assert.Equal(t, entity.RoleAssistant, out[1].Role)
	assert.Equal(t, "no, se pagó en término", out[2].Content)
}

func TestValidateEmptyBatch(t *testing.T) {
	out, err := newTestValidator().Validate(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
