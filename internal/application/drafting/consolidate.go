package drafting

import (
	"lexia-api/internal/domain/entity"
)

// Consolidate derives the canonical document-facts view from a session state.
// It is a pure function of the state: a field is nil exactly when its step
// has no facts yet, and a step answered with nothing yields a pointer to the
// empty string. Calling it at any step is fine; partial views are valid.
func Consolidate(state entity.SessionState) entity.ConsolidatedFacts {
	return entity.ConsolidatedFacts{
		HechosAdmitidos: consolidateVariant(state.HechosAdmitidos),
		HechosNegados:   consolidateVariant(state.HechosNegados),
		Defensas:        consolidateVariant(state.Defensas),
		Excepciones:     consolidateVariant(state.Excepciones),
	}
}

func consolidateVariant(facts *entity.StepFacts) *string {
	if facts == nil {
		return nil
	}
	contenido := facts.Contenido
	return &contenido
}
