// Package logging assembles the structured slog loggers used across
// seqvault components.
//
// It centralizes level parsing, console/JSON handler selection, and output
// routing, and exposes context-aware helpers so import code automatically
// tags log lines with run IDs and target identifiers. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
