package dto

import (
	"time"

	"lexia-api/internal/application/drafting"
	"lexia-api/internal/domain/entity"
)

// CreateSessionRequest opens a drafting session.
type CreateSessionRequest struct {
	CaseID   *string `json:"case_id,omitempty"`
	RawInput string  `json:"raw_input,omitempty"`
}

// AdvanceStepRequest merges collected facts into the session state.
type AdvanceStepRequest struct {
	State entity.SessionState `json:"state"`
}

// SessionResponse is the drafting session view.
type SessionResponse struct {
	SessionID   string              `json:"session_id"`
	CaseID      *string             `json:"case_id,omitempty"`
	State       entity.SessionState `json:"state"`
	CurrentStep string              `json:"current_step"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewSessionResponse converts a session entity.
func NewSessionResponse(s *entity.DraftingSession) *SessionResponse {
	return &SessionResponse{
		SessionID:   s.ID,
		CaseID:      s.CaseID,
		State:       s.State,
		CurrentStep: string(s.CurrentStep),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// AdvanceStepResponse reports the merged state and what is still missing.
type AdvanceStepResponse struct {
	SessionID   string              `json:"session_id"`
	State       entity.SessionState `json:"state"`
	CurrentStep string              `json:"current_step"`
	Missing     []string            `json:"missing"`
}

// NewAdvanceStepResponse converts an advance result.
func NewAdvanceStepResponse(result *drafting.AdvanceResult) *AdvanceStepResponse {
	missing := make([]string, 0, len(result.Missing))
	for _, step := range result.Missing {
		missing = append(missing, string(step))
	}
	return &AdvanceStepResponse{
		SessionID:   result.Session.ID,
		State:       result.Session.State,
		CurrentStep: string(result.Session.CurrentStep),
		Missing:     missing,
	}
}

// SessionListResponse is one page of sessions.
type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
}

// InterviewRequest carries one interview turn. When ConversationID is set
// the turn reads its history from that transcript and is persisted to it.
type InterviewRequest struct {
	Prompt         string  `json:"prompt" binding:"required"`
	Provider       string  `json:"provider,omitempty"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// InterviewToolCall is one tool invocation in an interview reply.
type InterviewToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// InterviewResponse is the assistant's reply for one interview turn.
type InterviewResponse struct {
	Content   string              `json:"content"`
	ToolCalls []InterviewToolCall `json:"tool_calls,omitempty"`
}
