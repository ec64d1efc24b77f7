package services

import "context"

type contextKey string

const (
	runIDContextKey    contextKey = "seqvault-run-id"
	targetPKContextKey contextKey = "seqvault-target-pk"
	systemIDContextKey contextKey = "seqvault-system-id"
)

// WithRunID attaches the invocation run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext extracts the invocation run ID, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDContextKey).(string)
	return id, ok && id != ""
}

// WithTarget attaches the target being processed to the context.
func WithTarget(ctx context.Context, pk int64, systemID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, targetPKContextKey, pk)
	return context.WithValue(ctx, systemIDContextKey, systemID)
}

// TargetPKFromContext extracts the target primary key, if present.
func TargetPKFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	pk, ok := ctx.Value(targetPKContextKey).(int64)
	return pk, ok
}

// SystemIDFromContext extracts the target system identifier, if present.
func SystemIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(systemIDContextKey).(string)
	return id, ok && id != ""
}
