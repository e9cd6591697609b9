package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lexia-api/internal/domain/service"
	"lexia-api/pkg/logger"
	"lexia-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer publishes messages to Redis Streams.
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer creates the producer. Streams are capped at maxLen entries
// (approximate trimming).
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// PublishMessage appends a message to the stream.
func (p *Producer) PublishMessage(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.PublishMessage",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// Publish implements service.AuditSink. Failures are logged and dropped;
// the audit trail never fails the operation that produced the event.
func (p *Producer) Publish(ctx context.Context, event service.AuditEvent) {
	if requestID, ok := ctx.Value(logger.RequestIDKey).(string); ok && event.RequestID == "" {
		event.RequestID = requestID
	}
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok && event.TraceID == "" {
		event.TraceID = traceID
	}

	msg, err := NewMessage(uuid.NewString(), "audit", event.UserID, event)
	if err != nil {
		metrics.AuditEventsPublished.WithLabelValues(event.Action, "error").Inc()
		logger.Warn(ctx, "failed to build audit message", "action", event.Action, "error", err.Error())
		return
	}
	if event.RequestID != "" {
		msg.SetMetadata("request_id", event.RequestID)
	}
	if event.TraceID != "" {
		msg.SetMetadata("trace_id", event.TraceID)
	}

	if _, err := p.PublishMessage(ctx, StreamAuditLog, msg); err != nil {
		metrics.AuditEventsPublished.WithLabelValues(event.Action, "error").Inc()
		logger.Warn(ctx, "failed to publish audit event",
			"action", event.Action,
			"resource_id", event.ResourceID,
			"error", err.Error(),
		)
		return
	}

	metrics.AuditEventsPublished.WithLabelValues(event.Action, "ok").Inc()
}
