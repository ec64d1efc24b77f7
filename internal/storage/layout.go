package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seqvault/internal/services"
)

const (
	targetsBase    = "targets"
	assembliesBase = "assemblies"
)

// Layout derives and creates directories inside the managed storage root.
type Layout struct {
	Root  string
	Shard bool
}

// NewLayout builds a layout rooted at root. Sharding splits numeric
// identifiers into <hi>/<lo>/<identifier> using the last four digits.
func NewLayout(root string, shard bool) Layout {
	return Layout{Root: filepath.Clean(root), Shard: shard}
}

// TargetDir returns (and creates) the storage directory for a target.
func (l Layout) TargetDir(pk int64) (string, error) {
	if l.Shard {
		return l.dir(targetsBase, shardSegments(pk), fmt.Sprintf("%d", pk))
	}
	return l.dir(targetsBase, "", fmt.Sprintf("%d", pk))
}

// AssemblyDir returns (and creates) the storage directory for an assembly.
func (l Layout) AssemblyDir(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrConfiguration, "storage", "assembly dir", "assembly name is empty", nil)
	}
	return l.dir(assembliesBase, "", name)
}

// Contains reports whether path lies inside the managed storage root.
func (l Layout) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "")
}

func (l Layout) dir(base, shard, identifier string) (string, error) {
	if strings.TrimSpace(l.Root) == "" {
		return "", services.Wrap(services.ErrConfiguration, "storage", "resolve dir", "storage root is not configured", nil)
	}
	path := filepath.Join(l.Root, base, shard, identifier)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", services.Wrap(services.ErrIO, "storage", "create dir", fmt.Sprintf("failed to create %s", path), err)
	}
	return path, nil
}

// shardSegments splits the last four digits of pk into two directory levels,
// zero-padding short keys: 12345 -> 23/45, 7 -> 00/07.
func shardSegments(pk int64) string {
	padded := fmt.Sprintf("%04d", pk)
	padded = padded[len(padded)-4:]
	return filepath.Join(padded[:2], padded[2:])
}
