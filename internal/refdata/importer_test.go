package refdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seqvault/internal/registry"
	"seqvault/internal/services"
	"seqvault/internal/testsupport"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"genome fasta", "genome_fasta"},
		{"Genome.FASTA", "genome_fasta"},
		{"  bwa -- index  ", "bwa_index"},
		{"GRCh38", "grch38"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func openStore(t *testing.T) (*registry.Store, *Importer) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, New(cfg, store, nil)
}

func TestRunImportsReferenceData(t *testing.T) {
	store, imp := openStore(t)
	source := testsupport.WriteFile(t, t.TempDir(), "genome.fa", ">chr1\nACGT\n")

	assembly, err := imp.Run(context.Background(), Options{
		Assembly:    "GRCh38",
		DataID:      "genome fasta",
		Description: "primary assembly",
		Path:        source,
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	entry, ok := assembly.ReferenceData["genome_fasta"]
	if !ok {
		t.Fatalf("resource not registered: %+v", assembly.ReferenceData)
	}
	if entry.Description != "primary assembly" {
		t.Fatalf("unexpected description: %q", entry.Description)
	}
	if _, err := os.Stat(entry.URL); err != nil {
		t.Fatalf("resource missing from storage: %v", err)
	}
	if filepath.Base(filepath.Dir(entry.URL)) != "genome_fasta" {
		t.Fatalf("resource should live under its data id: %s", entry.URL)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatal("source should be moved into storage")
	}
	if assembly.StorageUsage == 0 {
		t.Fatal("storage usage should be recorded")
	}

	// Same slug again is a precondition failure.
	second := testsupport.WriteFile(t, t.TempDir(), "genome2.fa", ">chr2\nTTTT\n")
	_, err = imp.Run(context.Background(), Options{Assembly: "GRCh38", DataID: "Genome.FASTA", Path: second})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}

	stored, err := store.AssemblyByName(context.Background(), "GRCh38")
	if err != nil {
		t.Fatalf("fetch assembly: %v", err)
	}
	if len(stored.ReferenceData) != 1 {
		t.Fatalf("duplicate registration should not persist: %+v", stored.ReferenceData)
	}
}

func TestRunSymlinkKeepsSource(t *testing.T) {
	_, imp := openStore(t)
	source := testsupport.WriteFile(t, t.TempDir(), "genome.fa", ">chr1\nACGT\n")

	assembly, err := imp.Run(context.Background(), Options{
		Assembly: "mm10",
		DataID:   "genome",
		Path:     source,
		Link:     true,
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("symlink import should leave the source alone: %v", err)
	}
	info, err := os.Lstat(assembly.ReferenceData["genome"].URL)
	if err != nil {
		t.Fatalf("stored resource missing: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("stored resource should be a symlink")
	}
}

func TestRunRejectsEmptyDataID(t *testing.T) {
	_, imp := openStore(t)
	_, err := imp.Run(context.Background(), Options{Assembly: "GRCh38", DataID: "---", Path: "genome.fa"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
