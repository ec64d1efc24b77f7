// Package importer implements the raw-data import engine: identifier
// pattern compilation, recursive discovery, file-kind classification,
// match-set validation, filename canonicalization, and the dry-run/commit
// transition.
//
// One invocation builds a complete match set over the supplied targets,
// validates it, and only then, when explicitly authorized, relocates
// files into the managed storage tree and reports updated metadata to the
// registry. Scanning excludes the storage root so repeated invocations are
// idempotent: files already imported can never be rediscovered as new
// matches.
package importer
