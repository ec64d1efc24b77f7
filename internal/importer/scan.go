package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"seqvault/internal/logging"
	"seqvault/internal/services"
)

// scan walks every root, matching files against the compiled pattern and
// bucketing them by target. Paths inside the managed storage root are
// excluded so already-imported files can never be rediscovered. Discovery
// is pure: no filesystem mutation happens here.
func (imp *Importer) scan(ctx context.Context, roots []string, pattern *Pattern, set *MatchSet, opts Options) error {
	logger := logging.WithContext(ctx, imp.logger)
	layout := imp.layout()

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Exploring directories..."),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
	}

	seen := 0
	matched := 0

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "scan", "resolve root", root, err)
		}
		if _, err := os.Stat(absRoot); err != nil {
			return services.Wrap(services.ErrConfiguration, "scan", "open root",
				fmt.Sprintf("directory %s is not accessible", absRoot), err)
		}
		logger.Debug("scanning directory", logging.String(logging.FieldDirectory, absRoot))

		walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				// Unreadable subtrees are skipped, not fatal: finding
				// nothing under a root is an intentional non-error.
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if layout.Contains(path) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			seen++
			if bar != nil {
				_ = bar.Add(1)
			}

			pk, ok := pattern.Match(path)
			if !ok {
				return nil
			}
			match, err := Classify(d.Name(), opts.SingleEnd)
			if err != nil {
				return err
			}
			if match.Kind == KindUnknown {
				return nil
			}
			match.Path = path
			set.appendFile(pk, match)
			matched++
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	logger.Info("scan completed",
		logging.Int("files_seen", seen),
		logging.Int("files_matched", matched),
		logging.Int("directories", len(roots)),
	)
	return nil
}
