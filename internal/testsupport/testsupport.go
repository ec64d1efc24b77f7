// Package testsupport provides fixture helpers shared by package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"seqvault/internal/config"
)

// NewConfig returns a config rooted in a per-test temporary directory with
// storage, registry, and log locations that exist and are writable.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageDir = filepath.Join(base, "storage")
	cfg.Paths.RegistryPath = filepath.Join(base, "registry.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("prepare config directories: %v", err)
	}
	return &cfg
}

// WriteFile creates a file with the given content, creating parent
// directories as needed, and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
