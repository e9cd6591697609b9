// Package service holds domain-level ports implemented by infrastructure.
package service

import (
	"context"
	"time"
)

// Audit actions emitted by the drafting workflow.
const (
	AuditActionSessionCreated   = "drafting_session.created"
	AuditActionSessionCompleted = "drafting_session.completed"
	AuditActionTranscriptStored = "conversation.transcript_stored"
)

// AuditEvent records one user-visible action for the activity trail.
type AuditEvent struct {
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	TraceID      string         `json:"trace_id,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AuditSink publishes audit events. Publishing is fire-and-forget: the
// implementation logs failures and never propagates them, so the business
// operation that emitted the event is never rolled back by the trail.
type AuditSink interface {
	Publish(ctx context.Context, event AuditEvent)
}
