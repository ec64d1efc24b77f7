// Package storage owns the managed storage tree: directory layout and
// sharding, relocation primitives (move, force-symlink), tree-size
// accounting, and preflight permission checks.
//
// The layout mirrors the registry's structure: each target gets
// <root>/targets/<pk> or, with sharding enabled, a two-level split of the
// last four digits of the primary key. Reference data lives under
// <root>/assemblies/<name>. Everything beneath the root is owned by
// seqvault and excluded from import scans.
package storage
