package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"seqvault/internal/logging"
	"seqvault/internal/registry"
	"seqvault/internal/services"
	"seqvault/internal/storage"
)

// commitLockName is the lock file guarding the storage root during commit.
const commitLockName = ".seqvault.lock"

type relocation struct {
	src        string
	dst        string
	descriptor registry.DataFile
}

// Commit relocates every validated match into the managed storage tree and
// persists the updated target records. It is invoked only when the caller
// explicitly authorized commit; validation must already have passed.
//
// Relocation for one target is all-or-nothing in spirit: the first failure
// aborts the run with an I/O error and the target's metadata is not
// reported as updated. Files already relocated for that target are left in
// place for manual reconciliation.
func (imp *Importer) Commit(ctx context.Context, set *MatchSet, opts Options) ([]registry.Target, error) {
	root := imp.cfg.Paths.StorageDir
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "commit", "ensure storage root", root, err)
	}
	if err := storage.Preflight(root); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(root, commitLockName))
	if err := lock.Lock(); err != nil {
		return nil, services.Wrap(services.ErrIO, "commit", "acquire storage lock", root, err)
	}
	defer func() { _ = lock.Unlock() }()

	layout := imp.layout()
	var imported []registry.Target

	for _, entry := range set.Targets() {
		if entry.Outcome() != OutcomeMatched {
			continue
		}
		target := entry.Target
		tctx := services.WithTarget(ctx, target.PK, target.SystemID)
		logger := logging.WithContext(tctx, imp.logger)

		if target.HasData() {
			return imported, services.Wrap(services.ErrPrecondition, "commit", "check target",
				fmt.Sprintf("target %s already has %s data recorded", target.SystemID, target.DataType), nil)
		}

		storageURL := target.StorageURL
		if storageURL == "" {
			dir, err := layout.TargetDir(target.PK)
			if err != nil {
				return imported, err
			}
			updated, err := imp.reg.SetStorage(tctx, target.PK, dir)
			if err != nil {
				return imported, err
			}
			target = *updated
			storageURL = dir
			logger.Info("allocated storage location", logging.String("storage_url", storageURL))
		}

		dataDir := filepath.Join(storageURL, imp.cfg.Import.DataDirName)
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return imported, services.Wrap(services.ErrIO, "commit", "create data dir", dataDir, err)
		}

		plan, dataType, err := imp.planRelocations(entry, dataDir, opts)
		if err != nil {
			return imported, err
		}

		for _, step := range plan {
			if err := relocate(step.src, step.dst, opts.Link); err != nil {
				return imported, services.Wrap(services.ErrIO, "commit", "relocate",
					fmt.Sprintf("failed to relocate %s to %s for %s; files already moved for this target were left in place",
						step.src, step.dst, target.SystemID), err)
			}
			logger.Debug("relocated file",
				logging.String("source", step.src),
				logging.String("destination", step.dst),
				logging.Bool("link", opts.Link),
			)
		}

		descriptors := make([]registry.DataFile, 0, len(plan))
		for _, step := range plan {
			descriptors = append(descriptors, step.descriptor)
		}

		updated, err := imp.reg.RecordImport(tctx, target.PK, registry.ImportUpdate{
			StorageURL:   storageURL,
			DataType:     dataType,
			RawData:      descriptors,
			StorageUsage: storage.TreeSize(storageURL),
		})
		if err != nil {
			return imported, err
		}
		imported = append(imported, *updated)
		logger.Info("import committed",
			logging.String("data_type", dataType),
			logging.Int("files", len(plan)),
		)
	}

	return imported, nil
}

// planRelocations computes destinations and content descriptors for every
// match of one target before anything moves, so a naming or checksum
// failure cannot leave a half-relocated target behind.
func (imp *Importer) planRelocations(entry *TargetMatches, dataDir string, opts Options) ([]relocation, string, error) {
	target := entry.Target
	plan := make([]relocation, 0, len(entry.Files))
	dataType := ""

	for _, match := range entry.Files {
		dstName, err := DestinationName(match, target.SystemID, imp.cfg.Import.FastqReadPrefix)
		if err != nil {
			return nil, "", err
		}
		dst := filepath.Join(dataDir, dstName)

		info, err := os.Stat(match.Path)
		if err != nil {
			return nil, "", services.Wrap(services.ErrIO, "commit", "stat source", match.Path, err)
		}
		checksum, err := storage.HashFile(match.Path)
		if err != nil {
			return nil, "", services.Wrap(services.ErrIO, "commit", "hash source", match.Path, err)
		}

		fileType := fileType(match)
		if match.Kind == KindAlignedReads || dataType == "" {
			dataType = fileType
		}

		plan = append(plan, relocation{
			src: match.Path,
			dst: dst,
			descriptor: registry.DataFile{
				FileURL:    dst,
				FileType:   fileType,
				FileData:   opts.FilesData[filepath.Base(match.Path)],
				SizeBytes:  info.Size(),
				Checksum:   checksum,
				HashMethod: "sha256",
			},
		})
	}

	return plan, dataType, nil
}

func relocate(src, dst string, link bool) error {
	if link {
		return storage.Symlink(src, dst)
	}
	return storage.Move(src, dst)
}
