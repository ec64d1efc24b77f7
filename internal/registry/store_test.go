package registry_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"seqvault/internal/config"
	"seqvault/internal/registry"
	"seqvault/internal/services"
)

func newStore(t *testing.T) *registry.Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageDir = filepath.Join(base, "storage")
	cfg.Paths.RegistryPath = filepath.Join(base, "registry.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	store, err := registry.Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetTarget(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	created, err := store.CreateTarget(ctx, "S_001", "C-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if created.PK == 0 {
		t.Fatal("expected assigned primary key")
	}
	if created.HasData() {
		t.Fatal("fresh target must not report data")
	}
	if created.SampleID != "" {
		t.Fatalf("expected null sample id, got %q", created.SampleID)
	}

	byID, err := store.GetBySystemID(ctx, "S_001")
	if err != nil {
		t.Fatal(err)
	}
	if byID.PK != created.PK || byID.CenterID != "C-1" {
		t.Fatalf("round trip mismatch: %+v", byID)
	}

	if _, err := store.GetByPK(ctx, 999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := store.CreateTarget(ctx, "S_001", "", ""); err == nil {
		t.Fatal("expected unique system_id violation")
	}
}

func TestTargetsFilter(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, _ := store.CreateTarget(ctx, "S_001", "C-1", "")
	b, _ := store.CreateTarget(ctx, "S_002", "C-2", "")
	if _, err := store.CreateTarget(ctx, "S_003", "", ""); err != nil {
		t.Fatal(err)
	}

	got, err := store.Targets(ctx, registry.Filter{PKs: []int64{a.PK, b.PK}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].PK != a.PK || got[1].PK != b.PK {
		t.Fatalf("pk filter returned %+v", got)
	}

	got, err = store.Targets(ctx, registry.Filter{CenterID: "C-2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SystemID != "S_002" {
		t.Fatalf("center filter returned %+v", got)
	}

	hasData := false
	got, err = store.Targets(ctx, registry.Filter{HasData: &hasData})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all three targets without data, got %d", len(got))
	}
}

func TestCountTargets(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.CreateTarget(ctx, "S_001", "C-1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTarget(ctx, "S_002", "C-1", ""); err != nil {
		t.Fatal(err)
	}
	created, err := store.CreateTarget(ctx, "S_003", "C-2", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordImport(ctx, created.PK, registry.ImportUpdate{
		StorageURL: "/vault/targets/00/03/3",
		DataType:   registry.DataTypeBAM,
		RawData:    []registry.DataFile{{FileURL: "/vault/targets/00/03/3/data/s3.bam", FileType: "BAM"}},
	}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		filter registry.Filter
		want   int64
	}{
		{"all", registry.Filter{}, 3},
		{"by center", registry.Filter{CenterID: "C-1"}, 2},
		{"with data", registry.Filter{HasData: ptr(true)}, 1},
		{"without data", registry.Filter{HasData: ptr(false)}, 2},
		{"center without data", registry.Filter{CenterID: "C-2", HasData: ptr(false)}, 0},
	}
	for _, tc := range cases {
		count, err := store.CountTargets(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if count != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, count)
		}
	}

	// Counting never depends on the listing limit.
	count, err := store.CountTargets(ctx, registry.Filter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("limit must not affect counts, got %d", count)
	}
}

func ptr(value bool) *bool {
	return &value
}

func TestRecordImportGuardsExistingData(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	target, err := store.CreateTarget(ctx, "S_001", "", "")
	if err != nil {
		t.Fatal(err)
	}

	update := registry.ImportUpdate{
		StorageURL: "/storage/targets/00/01/1",
		DataType:   registry.DataTypeFastq,
		RawData: []registry.DataFile{{
			FileURL:    "/storage/targets/00/01/1/data/S_001_1.fastq",
			FileType:   registry.DataTypeFastq,
			FileData:   map[string]string{"LB": "lib1"},
			SizeBytes:  3,
			Checksum:   "abc",
			HashMethod: "sha256",
		}},
		StorageUsage: 3,
	}

	updated, err := store.RecordImport(ctx, target.PK, update)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.HasData() || updated.DataType != registry.DataTypeFastq {
		t.Fatalf("import not recorded: %+v", updated)
	}
	if len(updated.RawData) != 1 || updated.RawData[0].FileData["LB"] != "lib1" {
		t.Fatalf("descriptors not persisted: %+v", updated.RawData)
	}

	if _, err := store.RecordImport(ctx, target.PK, update); !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error on re-import, got %v", err)
	}
}

func TestIdentifierFieldLookup(t *testing.T) {
	target := registry.Target{SystemID: "S_001", CenterID: "C-9"}

	if id, err := target.Identifier("system_id"); err != nil || id != "S_001" {
		t.Fatalf("system_id lookup: %q %v", id, err)
	}
	if id, err := target.Identifier("center_id"); err != nil || id != "C-9" {
		t.Fatalf("center_id lookup: %q %v", id, err)
	}
	if id, err := target.Identifier("sample_id"); err != nil || id != "" {
		t.Fatalf("null sample_id lookup: %q %v", id, err)
	}
	if _, err := target.Identifier("specimen"); err == nil {
		t.Fatal("expected error for unknown identifier field")
	}
}

func TestAssemblies(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	assembly, err := store.EnsureAssembly(ctx, "GRCh38")
	if err != nil {
		t.Fatal(err)
	}
	if assembly.Name != "GRCh38" || len(assembly.ReferenceData) != 0 {
		t.Fatalf("unexpected assembly %+v", assembly)
	}

	// Ensure is idempotent.
	again, err := store.EnsureAssembly(ctx, "GRCh38")
	if err != nil {
		t.Fatal(err)
	}
	if again.CreatedAt != assembly.CreatedAt {
		t.Fatal("expected idempotent ensure to keep the original record")
	}

	refs := map[string]registry.ReferenceData{
		"genome_fasta": {URL: "/storage/assemblies/GRCh38/genome_fasta/genome.fa", Description: "primary assembly"},
	}
	updated, err := store.RecordReferenceData(ctx, "GRCh38", refs, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ReferenceData["genome_fasta"].URL == "" || updated.StorageUsage != 1024 {
		t.Fatalf("reference data not persisted: %+v", updated)
	}
}
