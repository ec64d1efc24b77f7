// Package refdata imports reference resources (genomes, indexes, or any
// assembly-scoped file) into managed storage and registers them on their
// assembly under a unique slug.
package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"seqvault/internal/config"
	"seqvault/internal/logging"
	"seqvault/internal/registry"
	"seqvault/internal/services"
	"seqvault/internal/storage"
)

// Registry is the persistence surface reference data import needs.
type Registry interface {
	EnsureAssembly(ctx context.Context, name string) (*registry.Assembly, error)
	SetAssemblyStorage(ctx context.Context, name, storageURL string) (*registry.Assembly, error)
	RecordReferenceData(ctx context.Context, name string, referenceData map[string]registry.ReferenceData, storageUsage int64) (*registry.Assembly, error)
}

// Options describe one reference data import.
type Options struct {
	// Assembly is the assembly the resource belongs to, e.g. GRCh38.
	Assembly string
	// DataID names the resource; it is slugified before registration and
	// must be unique within the assembly.
	DataID string
	// Description is stored alongside the resource.
	Description string
	// Path is the file to import.
	Path string
	// Link symlinks the source into storage instead of moving it.
	Link bool
}

// Importer relocates reference files into per-assembly storage.
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

// Run imports one reference resource. The resource lands under
// <assembly storage>/<data id>/<basename> and is registered on the
// assembly record together with the recomputed storage usage.
func (imp *Importer) Run(ctx context.Context, opts Options) (*registry.Assembly, error) {
	dataID := Slugify(opts.DataID)
	if dataID == "" {
		return nil, services.Wrap(services.ErrValidation, "refdata", "check options", "a data identifier is required", nil)
	}

	source, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "refdata", "resolve source", opts.Path, err)
	}
	info, err := os.Stat(source)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "refdata", "open source", source, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "refdata", "check source",
			fmt.Sprintf("%s is a directory, expected a file", source), nil)
	}

	assembly, err := imp.reg.EnsureAssembly(ctx, opts.Assembly)
	if err != nil {
		return nil, err
	}
	if _, exists := assembly.ReferenceData[dataID]; exists {
		return nil, services.Wrap(services.ErrPrecondition, "refdata", "register",
			fmt.Sprintf("%s has already been registered for %s", dataID, assembly.Name), nil)
	}

	logger := logging.WithContext(ctx, imp.logger)

	if assembly.StorageURL == "" {
		layout := storage.NewLayout(imp.cfg.Paths.StorageDir, imp.cfg.Import.ShardStorage)
		dir, err := layout.AssemblyDir(assembly.Name)
		if err != nil {
			return nil, err
		}
		assembly, err = imp.reg.SetAssemblyStorage(ctx, assembly.Name, dir)
		if err != nil {
			return nil, err
		}
		logger.Info("allocated assembly storage",
			logging.String("assembly", assembly.Name),
			logging.String("storage_url", assembly.StorageURL),
		)
	}

	destDir := filepath.Join(assembly.StorageURL, dataID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "refdata", "create resource dir", destDir, err)
	}
	destination := filepath.Join(destDir, filepath.Base(source))

	if opts.Link {
		err = storage.Symlink(source, destination)
	} else {
		err = storage.Move(source, destination)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "refdata", "relocate",
			fmt.Sprintf("failed to relocate %s to %s", source, destination), err)
	}

	referenceData := make(map[string]registry.ReferenceData, len(assembly.ReferenceData)+1)
	for id, entry := range assembly.ReferenceData {
		referenceData[id] = entry
	}
	referenceData[dataID] = registry.ReferenceData{URL: destination, Description: opts.Description}

	updated, err := imp.reg.RecordReferenceData(ctx, assembly.Name, referenceData, storage.TreeSize(assembly.StorageURL))
	if err != nil {
		return nil, err
	}
	logger.Info("reference data imported",
		logging.String("assembly", updated.Name),
		logging.String("data_id", dataID),
		logging.String("url", destination),
	)
	return updated, nil
}

// Slugify normalizes a data identifier: lowercase, with every run of
// non-alphanumeric characters collapsed to one underscore.
func Slugify(value string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
