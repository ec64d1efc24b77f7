package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seqvault/internal/config"
	"seqvault/internal/importer"
	"seqvault/internal/registry"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		directories []string
		identifier  string
		centerID    string
		commit      bool
		symlink     bool
		singleEnd   bool
		filesData   string
	)

	cmd := &cobra.Command{
		Use:   "import [TARGET...]",
		Short: "Discover and import raw data for registered targets",
		Long: `Discover and import raw data for registered targets.

Targets are referenced by system ID or primary key, or selected in bulk with
--center-id. Without --commit the run is a dry run: files are discovered,
validated, and reported but nothing moves and nothing is recorded.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && centerID == "" {
				return fmt.Errorf("name at least one target or pass --center-id")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := importer.Options{
				Directories:     directories,
				IdentifierField: identifier,
				Commit:          commit,
				Link:            symlink,
				SingleEnd:       singleEnd,
				Progress:        shouldColorize(cmd.ErrOrStderr()),
			}
			if filesData != "" {
				data, err := importer.LoadFilesData(filesData)
				if err != nil {
					return err
				}
				opts.FilesData = data
			}

			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				targets, err := resolveTargets(cmd.Context(), store, args)
				if err != nil {
					return err
				}
				if centerID != "" {
					fromCenter, err := store.Targets(cmd.Context(), registry.Filter{CenterID: centerID})
					if err != nil {
						return err
					}
					targets = mergeTargets(targets, fromCenter)
				}

				imp := importer.New(cfg, store, logger)
				result, err := imp.Run(cmd.Context(), targets, opts)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprint(out, result.Summary.Render(shouldColorize(out)))
				if !commit && result.Summary.TotalFiles > 0 {
					fmt.Fprintln(out, "\nDry run only. Pass --commit to move files and update records.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&directories, "directories", "d", nil, "Directories to scan for data files")
	cmd.Flags().StringVar(&identifier, "identifier", "system_id", "Identifier field used for matching (system_id, center_id, sample_id)")
	cmd.Flags().StringVar(&centerID, "center-id", "", "Also import every target registered for this sequencing center")
	cmd.Flags().BoolVar(&commit, "commit", false, "Move matched files into storage and update records")
	cmd.Flags().BoolVar(&symlink, "symlink", false, "Symlink matched files into storage instead of moving them")
	cmd.Flags().BoolVar(&singleEnd, "single-end", false, "Treat fastq files without a read token as single-end data")
	cmd.Flags().StringVar(&filesData, "files-data", "", "YAML file mapping original file names to annotations")
	_ = cmd.MarkFlagRequired("directories")

	return cmd
}
