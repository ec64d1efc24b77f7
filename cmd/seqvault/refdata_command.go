package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"seqvault/internal/config"
	"seqvault/internal/refdata"
	"seqvault/internal/registry"
)

func newRefdataCommand(ctx *commandContext) *cobra.Command {
	refdataCmd := &cobra.Command{
		Use:   "refdata",
		Short: "Manage assembly-scoped reference data",
	}

	refdataCmd.AddCommand(newRefdataImportCommand(ctx))
	refdataCmd.AddCommand(newRefdataShowCommand(ctx))

	return refdataCmd
}

func newRefdataImportCommand(ctx *commandContext) *cobra.Command {
	var (
		assembly    string
		dataID      string
		description string
		symlink     bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a reference resource for an assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *registry.Store) error {
				imp := refdata.New(cfg, store, logger)
				result, err := imp.Run(cmd.Context(), refdata.Options{
					Assembly:    assembly,
					DataID:      dataID,
					Description: description,
					Path:        args[0],
					Link:        symlink,
				})
				if err != nil {
					return err
				}
				slug := refdata.Slugify(dataID)
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s for %s at %s\n",
					slug, result.Name, result.ReferenceData[slug].URL)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "", "Assembly the resource belongs to (e.g. GRCh38)")
	cmd.Flags().StringVar(&dataID, "data-id", "", "Unique identifier for the resource within the assembly")
	cmd.Flags().StringVar(&description, "description", "", "Human-readable description of the resource")
	cmd.Flags().BoolVar(&symlink, "symlink", false, "Symlink the resource into storage instead of moving it")
	_ = cmd.MarkFlagRequired("assembly")
	_ = cmd.MarkFlagRequired("data-id")

	return cmd
}

func newRefdataShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ASSEMBLY",
		Short: "Show an assembly and its registered resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				assembly, err := store.AssemblyByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Assembly:       %s\n", assembly.Name)
				fmt.Fprintf(out, "Storage URL:    %s\n", orDash(assembly.StorageURL))
				fmt.Fprintf(out, "Storage usage:  %s\n", formatBytes(assembly.StorageUsage))
				fmt.Fprintf(out, "Resources:      %s\n", strconv.Itoa(len(assembly.ReferenceData)))

				if len(assembly.ReferenceData) == 0 {
					return nil
				}
				ids := make([]string, 0, len(assembly.ReferenceData))
				for id := range assembly.ReferenceData {
					ids = append(ids, id)
				}
				sort.Strings(ids)

				rows := make([][]string, 0, len(ids))
				for _, id := range ids {
					entry := assembly.ReferenceData[id]
					rows = append(rows, []string{id, entry.URL, orDash(entry.Description)})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"data id", "url", "description"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
