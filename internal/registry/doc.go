// Package registry persists the targets and assemblies seqvault imports
// data for, backed by SQLite.
//
// Targets are pre-registered records identified by a stable primary key and
// a human-readable system ID; once raw data is imported for a target the
// registry holds its storage location, data type, per-file descriptors, and
// on-disk usage. The import engine consumes the store through a narrow
// interface so discovery and validation never depend on SQL.
package registry
