// Package audit records administrative actions in the durable audit trail and
// mirrors each one to the structured log.
package audit

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"darew.com/internal/auth"
	"darew.com/internal/content"
	"darew.com/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// UnknownActor is recorded when no identity is attached to the context.
const UnknownActor = "Unknown"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the audit request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit log line enriched with request and identity context.
func LogEvent(ctx context.Context, event string, fields ...zap.Field) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("audit: event name is required")
	}
	all := make([]zap.Field, 0, len(fields)+4)
	all = append(all, zap.String("type", "audit"), zap.String("event", event))
	if rid := RequestIDFromContext(ctx); rid != "" {
		all = append(all, zap.String("request_id", rid))
	}
	if id, ok := auth.IdentityFromContext(ctx); ok {
		all = append(all, zap.String("identity_id", id.ID))
	}
	all = append(all, fields...)
	obs.Logger().Info("audit", all...)
	return nil
}

// Trail is the durable audit log.
type Trail interface {
	AddLog(ctx context.Context, action, actorName string) content.LogEntry
}

// Recorder attributes actions to the identity in the request context.
type Recorder struct {
	trail Trail
}

func NewRecorder(trail Trail) *Recorder {
	return &Recorder{trail: trail}
}

// Record appends action to the trail under the acting identity's display
// name and logs it.
func (r *Recorder) Record(ctx context.Context, action string, fields ...zap.Field) content.LogEntry {
	actor := UnknownActor
	if id, ok := auth.IdentityFromContext(ctx); ok && id.Name != "" {
		actor = id.Name
	}
	entry := r.trail.AddLog(ctx, action, actor)
	_ = LogEvent(ctx, action, append(fields, zap.String("entry_id", entry.ID), zap.String("actor", actor))...)
	return entry
}
