// Package services defines the shared error taxonomy and context plumbing
// used across seqvault components.
//
// Errors are tagged with sentinel markers so callers can classify failures
// with errors.Is without parsing messages: configuration problems abort
// before any filesystem access, ambiguity errors abort after scanning but
// before relocation, precondition errors protect already-imported records,
// and I/O errors flag partially relocated targets that need manual
// reconciliation.
package services
