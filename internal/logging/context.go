package logging

import (
	"context"
	"log/slog"

	"seqvault/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for invocation run IDs.
	FieldRunID = "run_id"
	// FieldTargetPK is the standardized structured logging key for target primary keys.
	FieldTargetPK = "target_pk"
	// FieldSystemID is the standardized structured logging key for target system identifiers.
	FieldSystemID = "system_id"
	// FieldDirectory is the standardized structured logging key for scanned directories.
	FieldDirectory = "directory"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if pk, ok := services.TargetPKFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldTargetPK, pk))
	}
	if sid, ok := services.SystemIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSystemID, sid))
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
	return logger.With(attrsToArgs(fields)...)
}
