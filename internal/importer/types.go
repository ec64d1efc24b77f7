package importer

import (
	"sort"

	"seqvault/internal/registry"
)

// FileKind classifies a matched file by its filename shape.
type FileKind int

const (
	KindUnknown FileKind = iota
	// KindAlignedReads is a bam or cram container.
	KindAlignedReads
	// KindAlignedIndex is a sidecar of an aligned-reads container (bai, crai, md5).
	KindAlignedIndex
	// KindPairedReads is a fastq file carrying a read-1 or read-2 index token.
	KindPairedReads
	// KindSingleReads is a fastq file imported as single-end data.
	KindSingleReads
)

func (k FileKind) String() string {
	switch k {
	case KindAlignedReads:
		return "aligned-reads"
	case KindAlignedIndex:
		return "aligned-index"
	case KindPairedReads:
		return "paired-reads"
	case KindSingleReads:
		return "single-reads"
	default:
		return "unknown"
	}
}

// category collapses kinds for the mixed-format check: paired and single
// reads count as one sequence category, containers and their sidecars as one
// alignment category.
func (k FileKind) category() string {
	switch k {
	case KindAlignedReads, KindAlignedIndex:
		return "alignment"
	case KindPairedReads, KindSingleReads:
		return "sequence"
	default:
		return "unknown"
	}
}

// Match associates one discovered file with a target.
type Match struct {
	Path string
	Kind FileKind
	// Read is 1 or 2 for paired reads, 0 otherwise.
	Read int
}

// Outcome is the per-target classification derived from one invocation.
type Outcome int

const (
	// OutcomeSkipped marks targets that already had data recorded.
	OutcomeSkipped Outcome = iota
	// OutcomeMissing marks eligible targets that matched no files.
	OutcomeMissing
	// OutcomeMatched marks targets with at least one matched file.
	OutcomeMatched
)

// TargetMatches holds everything discovered for one target.
type TargetMatches struct {
	Target registry.Target
	// UsingID is the human-readable identifier annotation for reporting.
	UsingID string
	Files   []Match
}

// Outcome classifies the target. The three outcomes partition the target
// set: a target with pre-existing data is skipped even when new files
// matched during the scan.
func (tm *TargetMatches) Outcome() Outcome {
	switch {
	case tm.Target.HasData():
		return OutcomeSkipped
	case len(tm.Files) > 0:
		return OutcomeMatched
	default:
		return OutcomeMissing
	}
}

// MatchSet maps targets to the matches discovered for them during one
// invocation. Iteration order is always ascending primary key.
type MatchSet struct {
	entries map[int64]*TargetMatches
}

func newMatchSet() *MatchSet {
	return &MatchSet{entries: map[int64]*TargetMatches{}}
}

func (m *MatchSet) add(target registry.Target, usingID string) {
	m.entries[target.PK] = &TargetMatches{Target: target, UsingID: usingID}
}

func (m *MatchSet) appendFile(pk int64, match Match) {
	if entry, ok := m.entries[pk]; ok {
		entry.Files = append(entry.Files, match)
	}
}

// Get returns the entry for a primary key, or nil.
func (m *MatchSet) Get(pk int64) *TargetMatches {
	return m.entries[pk]
}

// Len returns the number of targets in the set.
func (m *MatchSet) Len() int {
	return len(m.entries)
}

// Targets returns all entries ordered by primary key.
func (m *MatchSet) Targets() []*TargetMatches {
	pks := make([]int64, 0, len(m.entries))
	for pk := range m.entries {
		pks = append(pks, pk)
	}
	sort.Slice(pks, func(i, j int) bool { return pks[i] < pks[j] })

	out := make([]*TargetMatches, 0, len(pks))
	for _, pk := range pks {
		out = append(out, m.entries[pk])
	}
	return out
}
