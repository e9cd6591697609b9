// Package conversation implements the transcript trust boundary: message
// validation against the declared tool capabilities and atomic appends to a
// conversation's durable transcript.
package conversation

import (
	"lexia-api/internal/domain/entity"
)

// ParamType is the JSON type a tool parameter must carry.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// Param describes one tool argument.
type Param struct {
	Type     ParamType
	Desc     string
	Required bool
	Enum     []string
}

// Tool is one declared capability the assistant may invoke.
type Tool struct {
	Name   string
	Desc   string
	Params map[string]Param
}

// ToolSchema is the canonical set of tools the assistant is allowed to call.
// Client-submitted transcripts are checked against it before persistence.
type ToolSchema struct {
	tools map[string]Tool
	order []string
}

// NewToolSchema builds a schema from the given tools.
func NewToolSchema(tools ...Tool) *ToolSchema {
	s := &ToolSchema{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, ok := s.tools[t.Name]; ok {
			continue
		}
		s.tools[t.Name] = t
		s.order = append(s.order, t.Name)
	}
	return s
}

// Lookup returns the tool declared under name.
func (s *ToolSchema) Lookup(name string) (Tool, bool) {
	t, ok := s.tools[name]
	return t, ok
}

// Tools returns the declared tools in declaration order.
func (s *ToolSchema) Tools() []Tool {
	out := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tools[name])
	}
	return out
}

// Tool names of the drafting interview.
const (
	ToolRegistrarHechos  = "registrar_hechos"
	ToolConsultarDemanda = "consultar_demanda"
	ToolConsolidarHechos = "consolidar_hechos"
)

// DraftingTools declares the capabilities of the legal-answer interview
// assistant. The interview generator exposes the same set to the model, so
// the validator and the model always agree on what is callable.
func DraftingTools() *ToolSchema {
	steps := make([]string, 0, len(entity.CollectionSteps))
	for _, s := range entity.CollectionSteps {
		steps = append(steps, string(s))
	}

	return NewToolSchema(
		Tool{
			Name: ToolRegistrarHechos,
			Desc: "Registra los hechos recogidos para un paso de la entrevista.",
			Params: map[string]Param{
				"paso": {
					Type:     ParamString,
					Desc:     "Paso de la entrevista al que pertenecen los hechos",
					Required: true,
					Enum:     steps,
				},
				"contenido": {
					Type:     ParamString,
					Desc:     "Texto de los hechos; vacío significa que no hay ninguno",
					Required: true,
				},
			},
		},
		Tool{
			Name: ToolConsultarDemanda,
			Desc: "Busca pasajes relevantes en el texto de la demanda aportada.",
			Params: map[string]Param{
				"consulta": {
					Type:     ParamString,
					Desc:     "Términos a localizar en la demanda",
					Required: true,
				},
				"max_resultados": {
					Type: ParamInteger,
					Desc: "Cantidad máxima de pasajes a devolver",
				},
			},
		},
		Tool{
			Name: ToolConsolidarHechos,
			Desc: "Solicita la vista consolidada de los hechos recogidos hasta ahora.",
			Params: map[string]Param{
				"incluir_pendientes": {
					Type: ParamBoolean,
					Desc: "Incluir también los pasos aún sin responder",
				},
			},
		},
	)
}
