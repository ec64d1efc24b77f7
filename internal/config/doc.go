// Package config loads, validates, and normalizes seqvault's TOML
// configuration.
//
// The configuration carries the managed storage root, the registry database
// location, import behavior toggles (storage sharding, the canonical fastq
// read prefix), and logging preferences. All path fields are ~-expanded at
// load time so downstream code can treat them as absolute.
package config
