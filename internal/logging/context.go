package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one report run across every log line it produces.
	FieldRunID = "run_id"
	// FieldRequestID carries the HTTP request identifier.
	FieldRequestID = "request_id"
	// FieldCreator names the creator a log line concerns.
	FieldCreator = "creator"
	// FieldModel names the compensation model being evaluated.
	FieldModel = "model"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldErrorCode is the machine readable failure code.
	FieldErrorCode = "error_code"
	// FieldDecisionType labels decision logs.
	FieldDecisionType = "decision_type"
)

type contextKey int

const (
	runIDKey contextKey = iota
	requestIDKey
	creatorKey
	modelKey
)

// WithRunID tags ctx with a report run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return withString(ctx, runIDKey, id)
}

// WithRequestID tags ctx with an HTTP request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

// WithCreator tags ctx with a creator name.
func WithCreator(ctx context.Context, name string) context.Context {
	return withString(ctx, creatorKey, name)
}

// WithModel tags ctx with a compensation model name.
func WithModel(ctx context.Context, name string) context.Context {
	return withString(ctx, modelKey, name)
}

// RunIDFromContext returns the run identifier stored in ctx.
func RunIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, runIDKey) }

// RequestIDFromContext returns the request identifier stored in ctx.
func RequestIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, requestIDKey) }

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	for _, entry := range []struct {
		key   contextKey
		field string
	}{
		{runIDKey, FieldRunID},
		{requestIDKey, FieldRequestID},
		{creatorKey, FieldCreator},
		{modelKey, FieldModel},
	} {
		if value, ok := stringFrom(ctx, entry.key); ok {
			fields = append(fields, slog.String(entry.field, value))
		}
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
