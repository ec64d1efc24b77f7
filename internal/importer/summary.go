package importer

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// TargetReport is one target's line in the summary.
type TargetReport struct {
	SystemID string
	UsingID  string
	Files    []string
}

// Summary aggregates per-target outcomes into a human-auditable report. It
// is a pure function of the match set and pre-existing data flags, so it is
// identical before and after commit and serves as the dry-run preview.
type Summary struct {
	RunID      string
	Skipped    []TargetReport
	Missing    []TargetReport
	Matched    []TargetReport
	TotalFiles int
}

// TotalTargets returns the size of the partitioned target set.
func (s Summary) TotalTargets() int {
	return len(s.Skipped) + len(s.Missing) + len(s.Matched)
}

// Summarize derives the summary from a match set.
func Summarize(set *MatchSet, runID string) Summary {
	summary := Summary{RunID: runID}
	for _, entry := range set.Targets() {
		report := TargetReport{SystemID: entry.Target.SystemID, UsingID: entry.UsingID}
		for _, match := range entry.Files {
			report.Files = append(report.Files, match.Path)
		}

		switch entry.Outcome() {
		case OutcomeSkipped:
			summary.Skipped = append(summary.Skipped, report)
		case OutcomeMissing:
			summary.Missing = append(summary.Missing, report)
		case OutcomeMatched:
			summary.Matched = append(summary.Matched, report)
			summary.TotalFiles += len(report.Files)
		}
	}
	return summary
}

// Render formats the summary. With colored set, outcome markers use the
// same palette the original operators are used to: cyan for skipped, red
// for missing, green for matched.
func (s Summary) Render(colored bool) string {
	paint := func(color text.Color, value string) string {
		if !colored {
			return value
		}
		return color.Sprint(value)
	}

	var b strings.Builder
	for _, report := range s.Skipped {
		fmt.Fprintf(&b, "%s\n", paint(text.FgCyan, "skipped "+report.UsingID))
	}
	for _, report := range s.Missing {
		fmt.Fprintf(&b, "%s\tno files matched\n", paint(text.FgRed, "missing "+report.UsingID))
	}
	for _, report := range s.Matched {
		fmt.Fprintf(&b, "%s\n", paint(text.FgGreen, "found "+report.UsingID))
		for _, path := range report.Files {
			fmt.Fprintf(&b, "\t\t%s\n", path)
		}
	}

	fmt.Fprintf(&b, "\ntotal targets: %d\n", s.TotalTargets())
	fmt.Fprintf(&b, "targets skipped: %d\n", len(s.Skipped))
	fmt.Fprintf(&b, "targets missing: %d\n", len(s.Missing))
	fmt.Fprintf(&b, "targets matched: %d\n", len(s.Matched))
	fmt.Fprintf(&b, "total files matched: %d\n", s.TotalFiles)
	return b.String()
}
