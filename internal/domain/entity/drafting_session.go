package entity

import (
	"time"
	"unicode/utf8"
)

// Step identifies a stage of the drafting state machine.
type Step string

const (
	StepInit            Step = "init"
	StepHechosAdmitidos Step = "hechos_admitidos"
	StepHechosNegados   Step = "hechos_negados"
	StepDefensas        Step = "defensas"
	StepExcepciones     Step = "excepciones"
	StepReady           Step = "ready"
	StepCompleted       Step = "completed"
)

// CollectionSteps lists the fact-collection steps in interview order.
var CollectionSteps = []Step{
	StepHechosAdmitidos,
	StepHechosNegados,
	StepDefensas,
	StepExcepciones,
}

// ValidStep reports whether s belongs to the declared step set.
func ValidStep(s Step) bool {
	switch s {
	case StepInit, StepReady, StepCompleted:
		return true
	}
	for _, cs := range CollectionSteps {
		if s == cs {
			return true
		}
	}
	return false
}

// StepFacts holds the facts collected by one step. An empty Contenido inside
// a present variant means the user affirmatively answered "none"; an absent
// variant means the step has not been answered yet.
type StepFacts struct {
	Contenido string  `json:"contenido"`
	Notas     *string `json:"notas,omitempty"`
}

// SessionState is the step-keyed union of collected facts. Each variant
// belongs to exactly one step, so merging is variant-aware and a later step
// can never clobber an earlier step's slot.
type SessionState struct {
	HechosAdmitidos *StepFacts `json:"hechos_admitidos,omitempty"`
	HechosNegados   *StepFacts `json:"hechos_negados,omitempty"`
	Defensas        *StepFacts `json:"defensas,omitempty"`
	Excepciones     *StepFacts `json:"excepciones,omitempty"`
}

// Merge applies the variants present in update onto s, leaving every other
// variant untouched. Returns the merged copy.
func (s SessionState) Merge(update SessionState) SessionState {
	if update.HechosAdmitidos != nil {
		v := *update.HechosAdmitidos
		s.HechosAdmitidos = &v
	}
	if update.HechosNegados != nil {
		v := *update.HechosNegados
		s.HechosNegados = &v
	}
	if update.Defensas != nil {
		v := *update.Defensas
		s.Defensas = &v
	}
	if update.Excepciones != nil {
		v := *update.Excepciones
		s.Excepciones = &v
	}
	return s
}

// Variant returns the facts collected for step, or nil.
func (s SessionState) Variant(step Step) *StepFacts {
	switch step {
	case StepHechosAdmitidos:
		return s.HechosAdmitidos
	case StepHechosNegados:
		return s.HechosNegados
	case StepDefensas:
		return s.Defensas
	case StepExcepciones:
		return s.Excepciones
	}
	return nil
}

// NextStep computes the step the session should sit on: the first collection
// step without facts, or ready when every step has answered.
func (s SessionState) NextStep() Step {
	for _, step := range CollectionSteps {
		if s.Variant(step) == nil {
			return step
		}
	}
	return StepReady
}

// MissingSteps lists the collection steps still without facts, in order.
func (s SessionState) MissingSteps() []Step {
	var missing []Step
	for _, step := range CollectionSteps {
		if s.Variant(step) == nil {
			missing = append(missing, step)
		}
	}
	return missing
}

// RawInputMaxChars bounds the free-text source material stored per session.
const RawInputMaxChars = 100000

// TrimRawInput bounds s to RawInputMaxChars characters, dropping the excess.
func TrimRawInput(s string) string {
	if utf8.RuneCountInString(s) <= RawInputMaxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:RawInputMaxChars])
}

// DraftingSession is one end-to-end legal-answer drafting task.
type DraftingSession struct {
	ID          string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID     string       `json:"owner_id" gorm:"type:uuid;index;not null"`
	CaseID      *string      `json:"case_id,omitempty" gorm:"type:uuid;index"`
	RawInput    string       `json:"raw_input" gorm:"type:text;not null"`
	State       SessionState `json:"state" gorm:"type:jsonb;serializer:json;not null"`
	CurrentStep Step         `json:"current_step" gorm:"type:varchar(32);not null;default:'init'"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (DraftingSession) TableName() string {
	return "drafting_sessions"
}

// NewDraftingSession builds a session in its initial step, trimming rawInput
// once at creation.
func NewDraftingSession(ownerID string, caseID *string, rawInput string) *DraftingSession {
	now := time.Now()
	return &DraftingSession{
		OwnerID:     ownerID,
		CaseID:      caseID,
		RawInput:    TrimRawInput(rawInput),
		State:       SessionState{},
		CurrentStep: StepInit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Completed reports whether the session reached its terminal step.
func (s *DraftingSession) Completed() bool {
	return s.CurrentStep == StepCompleted
}

// ConsolidatedFacts is the canonical document-facts view derived from a
// session state. A nil field means "not yet provided"; a pointer to an empty
// string means the user affirmatively stated there is nothing for it.
type ConsolidatedFacts struct {
	HechosAdmitidos *string `json:"hechos_admitidos,omitempty"`
	HechosNegados   *string `json:"hechos_negados,omitempty"`
	Defensas        *string `json:"defensas,omitempty"`
	Excepciones     *string `json:"excepciones,omitempty"`
}
