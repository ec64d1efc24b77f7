package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"seqvault/internal/config"
	"seqvault/internal/registry"
	"seqvault/internal/services"
	"seqvault/internal/storage"
	"seqvault/internal/testsupport"
)

type fakeRegistry struct {
	targets map[int64]*registry.Target
}

func newFakeRegistry(targets ...registry.Target) *fakeRegistry {
	reg := &fakeRegistry{targets: map[int64]*registry.Target{}}
	for _, t := range targets {
		copied := t
		reg.targets[t.PK] = &copied
	}
	return reg
}

func (f *fakeRegistry) SetStorage(_ context.Context, pk int64, storageURL string) (*registry.Target, error) {
	target, ok := f.targets[pk]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "registry", "set storage", fmt.Sprintf("target %d", pk), nil)
	}
	target.StorageURL = storageURL
	target.UpdatedAt = time.Now()
	copied := *target
	return &copied, nil
}

func (f *fakeRegistry) RecordImport(_ context.Context, pk int64, update registry.ImportUpdate) (*registry.Target, error) {
	target, ok := f.targets[pk]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "registry", "record import", fmt.Sprintf("target %d", pk), nil)
	}
	if target.HasData() {
		return nil, services.Wrap(services.ErrPrecondition, "registry", "record import",
			fmt.Sprintf("target %s already has data", target.SystemID), nil)
	}
	target.StorageURL = update.StorageURL
	target.DataType = update.DataType
	target.RawData = update.RawData
	target.StorageUsage = update.StorageUsage
	target.UpdatedAt = time.Now()
	copied := *target
	return &copied, nil
}

func (f *fakeRegistry) snapshot(pk int64) registry.Target {
	return *f.targets[pk]
}

func importFixture(t *testing.T) (*config.Config, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	inbox := t.TempDir()
	testsupport.WriteFile(t, inbox, "s1_R1_x.fastq", "read one\n")
	testsupport.WriteFile(t, inbox, "s1_R2_x.fastq", "read two\n")
	testsupport.WriteFile(t, inbox, "nested/s2.bam", "aligned\n")
	testsupport.WriteFile(t, inbox, "unrelated.txt", "ignored\n")
	return cfg, inbox
}

func TestRunDryRun(t *testing.T) {
	cfg, inbox := importFixture(t)
	reg := newFakeRegistry(
		registry.Target{PK: 1, SystemID: "s1"},
		registry.Target{PK: 2, SystemID: "s2"},
	)
	imp := New(cfg, reg, nil)

	result, err := imp.Run(context.Background(), targetsOf(reg), Options{Directories: []string{inbox}})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("run id must be assigned")
	}
	if len(result.Summary.Matched) != 2 || result.Summary.TotalFiles != 3 {
		t.Fatalf("expected 2 matched targets with 3 files, got %+v", result.Summary)
	}
	if len(result.Imported) != 0 {
		t.Fatal("dry run must not import")
	}

	// Sources stay where they were and no records change.
	if _, err := os.Stat(filepath.Join(inbox, "s1_R1_x.fastq")); err != nil {
		t.Fatalf("dry run moved a source file: %v", err)
	}
	if reg.snapshot(1).HasData() {
		t.Fatal("dry run must not persist data")
	}
}

func TestRunCommit(t *testing.T) {
	cfg, inbox := importFixture(t)
	reg := newFakeRegistry(
		registry.Target{PK: 1, SystemID: "s1"},
		registry.Target{PK: 2, SystemID: "s2"},
	)
	imp := New(cfg, reg, nil)

	result, err := imp.Run(context.Background(), targetsOf(reg), Options{
		Directories: []string{inbox},
		Commit:      true,
	})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(result.Imported) != 2 {
		t.Fatalf("expected 2 imported targets, got %d", len(result.Imported))
	}

	layout := storage.NewLayout(cfg.Paths.StorageDir, cfg.Import.ShardStorage)
	s1Dir, err := layout.TargetDir(1)
	if err != nil {
		t.Fatalf("TargetDir failed: %v", err)
	}
	for _, name := range []string{"s1_x_1.fastq", "s1_x_2.fastq"} {
		if _, err := os.Stat(filepath.Join(s1Dir, "data", name)); err != nil {
			t.Fatalf("expected %s in storage: %v", name, err)
		}
	}
	s2Dir, err := layout.TargetDir(2)
	if err != nil {
		t.Fatalf("TargetDir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s2Dir, "data", "s2.bam")); err != nil {
		t.Fatalf("expected s2.bam in storage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(inbox, "s1_R1_x.fastq")); !os.IsNotExist(err) {
		t.Fatal("committed sources must be moved out of the inbox")
	}

	s1 := reg.snapshot(1)
	if s1.DataType != registry.DataTypeFastq || len(s1.RawData) != 2 || s1.StorageUsage == 0 {
		t.Fatalf("unexpected s1 record: %+v", s1)
	}
	for _, file := range s1.RawData {
		if file.Checksum == "" || file.HashMethod != "sha256" || file.SizeBytes == 0 {
			t.Fatalf("incomplete file descriptor: %+v", file)
		}
	}
	if s2 := reg.snapshot(2); s2.DataType != registry.DataTypeBAM {
		t.Fatalf("unexpected s2 data type: %s", s2.DataType)
	}

	// A second run over the same inbox is a no-op: both targets now carry
	// data and their files are out of reach of the scanner.
	again, err := imp.Run(context.Background(), targetsOf(reg), Options{Directories: []string{inbox}, Commit: true})
	if err != nil {
		t.Fatalf("re-run failed: %v", err)
	}
	if len(again.Summary.Skipped) != 2 || len(again.Imported) != 0 {
		t.Fatalf("re-run should skip both targets: %+v", again.Summary)
	}
}

func TestRunCommitSymlinkMode(t *testing.T) {
	cfg, inbox := importFixture(t)
	reg := newFakeRegistry(registry.Target{PK: 2, SystemID: "s2"})
	imp := New(cfg, reg, nil)

	if _, err := imp.Run(context.Background(), targetsOf(reg), Options{
		Directories: []string{inbox},
		Commit:      true,
		Link:        true,
	}); err != nil {
		t.Fatalf("symlink commit failed: %v", err)
	}

	src := filepath.Join(inbox, "nested", "s2.bam")
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("symlink mode must leave sources in place: %v", err)
	}

	layout := storage.NewLayout(cfg.Paths.StorageDir, cfg.Import.ShardStorage)
	dir, err := layout.TargetDir(2)
	if err != nil {
		t.Fatalf("TargetDir failed: %v", err)
	}
	dst := filepath.Join(dir, "data", "s2.bam")
	info, err := os.Lstat(dst)
	if err != nil {
		t.Fatalf("expected symlink in storage: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("stored file should be a symlink")
	}
}

func TestRunCommitFilesData(t *testing.T) {
	cfg, inbox := importFixture(t)
	reg := newFakeRegistry(registry.Target{PK: 2, SystemID: "s2"})
	imp := New(cfg, reg, nil)

	if _, err := imp.Run(context.Background(), targetsOf(reg), Options{
		Directories: []string{inbox},
		Commit:      true,
		FilesData:   map[string]map[string]string{"s2.bam": {"platform": "NOVASEQ"}},
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	record := reg.snapshot(2)
	if len(record.RawData) != 1 || record.RawData[0].FileData["platform"] != "NOVASEQ" {
		t.Fatalf("files data annotation missing: %+v", record.RawData)
	}
}

func TestRunRejectsMixedFormats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inbox := t.TempDir()
	testsupport.WriteFile(t, inbox, "s1_R1.fastq", "reads\n")
	testsupport.WriteFile(t, inbox, "s1.bam", "aligned\n")

	reg := newFakeRegistry(registry.Target{PK: 1, SystemID: "s1"})
	imp := New(cfg, reg, nil)

	_, err := imp.Run(context.Background(), targetsOf(reg), Options{Directories: []string{inbox}, Commit: true})
	if !errors.Is(err, services.ErrAmbiguous) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(inbox, "s1.bam")); statErr != nil {
		t.Fatalf("validation failure must not move files: %v", statErr)
	}
	if reg.snapshot(1).HasData() {
		t.Fatal("validation failure must not persist data")
	}
}

func TestRunRequiresDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	imp := New(cfg, newFakeRegistry(), nil)
	_, err := imp.Run(context.Background(), nil, Options{})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func targetsOf(reg *fakeRegistry) []registry.Target {
	out := make([]registry.Target, 0, len(reg.targets))
	for _, target := range reg.targets {
		out = append(out, *target)
	}
	return out
}
