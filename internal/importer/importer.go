package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"seqvault/internal/config"
	"seqvault/internal/logging"
	"seqvault/internal/registry"
	"seqvault/internal/services"
	"seqvault/internal/storage"
)

// Registry is the persistence surface the importer needs. *registry.Store
// satisfies it; tests substitute lighter fakes.
type Registry interface {
	SetStorage(ctx context.Context, pk int64, storageURL string) (*registry.Target, error)
	RecordImport(ctx context.Context, pk int64, update registry.ImportUpdate) (*registry.Target, error)
}

// Options control a single import run.
type Options struct {
	// Directories are the scan roots. At least one is required.
	Directories []string
	// IdentifierField selects the registry field used for matching:
	// system_id (default), center_id, or sample_id.
	IdentifierField string
	// Commit relocates matched files and persists records. When false the
	// run is a dry run: discovery and validation only.
	Commit bool
	// Link creates symlinks in storage instead of moving the sources.
	Link bool
	// SingleEnd classifies fastq files without a read token as single-end
	// reads instead of failing.
	SingleEnd bool
	// Progress renders a spinner on stderr while scanning.
	Progress bool
	// FilesData maps original basenames to annotations recorded on the
	// imported files.
	FilesData map[string]map[string]string
}

// Result is everything one run produced.
type Result struct {
	RunID    string
	Set      *MatchSet
	Summary  Summary
	Imported []registry.Target
}

// Importer drives the full import pipeline: pattern compilation, directory
// scanning, match validation, and (when committing) relocation into the
// managed storage tree.
type Importer struct {
	cfg    *config.Config
	reg    Registry
	logger *slog.Logger
}

func New(cfg *config.Config, reg Registry, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{cfg: cfg, reg: reg, logger: logger}
}

func (imp *Importer) layout() storage.Layout {
	return storage.NewLayout(imp.cfg.Paths.StorageDir, imp.cfg.Import.ShardStorage)
}

// Run imports data for the given targets. Targets that already carry data
// or have a null identifier are reported but never matched; everything
// else is matched against the scan roots and, on commit, relocated and
// recorded. Validation failures abort before any file moves.
func (imp *Importer) Run(ctx context.Context, targets []registry.Target, opts Options) (*Result, error) {
	if len(opts.Directories) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "import", "check options",
			"at least one directory to scan is required", nil)
	}
	if opts.IdentifierField == "" {
		opts.IdentifierField = "system_id"
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, imp.logger)
	logger.Info("import run started",
		logging.Int("targets", len(targets)),
		logging.String("identifier_field", opts.IdentifierField),
		logging.Bool("commit", opts.Commit),
	)

	pattern, set, err := CompilePattern(targets, FieldKey(opts.IdentifierField))
	if err != nil {
		return nil, err
	}

	if !pattern.Empty() {
		if err := imp.scan(ctx, opts.Directories, pattern, set, opts); err != nil {
			return nil, err
		}
	} else {
		logger.Info("no eligible targets, skipping scan")
	}

	if err := ValidateMatchSet(set); err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Set: set, Summary: Summarize(set, runID)}
	if !opts.Commit {
		logger.Info("dry run finished",
			logging.Int("targets_matched", len(result.Summary.Matched)),
			logging.Int("files_matched", result.Summary.TotalFiles),
		)
		return result, nil
	}

	imported, err := imp.Commit(ctx, set, opts)
	result.Imported = imported
	if err != nil {
		return result, err
	}
	result.Summary = Summarize(set, runID)
	logger.Info("import run finished",
		logging.Int("targets_imported", len(imported)),
		logging.Int("files_imported", result.Summary.TotalFiles),
	)
	return result, nil
}
