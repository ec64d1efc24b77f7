package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"seqvault/internal/config"
	"seqvault/internal/registry"
)

func newTargetsCommand(ctx *commandContext) *cobra.Command {
	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage registered import targets",
	}

	targetsCmd.AddCommand(newTargetsAddCommand(ctx))
	targetsCmd.AddCommand(newTargetsListCommand(ctx))
	targetsCmd.AddCommand(newTargetsShowCommand(ctx))
	targetsCmd.AddCommand(newTargetsCountCommand(ctx))
	targetsCmd.AddCommand(newTargetsPathsCommand(ctx))

	return targetsCmd
}

func newTargetsAddCommand(ctx *commandContext) *cobra.Command {
	var centerID string
	var sampleID string

	cmd := &cobra.Command{
		Use:   "add SYSTEM_ID",
		Short: "Register a new import target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				target, err := store.CreateTarget(cmd.Context(), args[0], centerID, sampleID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered target %s (pk %d)\n", target.SystemID, target.PK)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&centerID, "center-id", "", "Sequencing center identifier")
	cmd.Flags().StringVar(&sampleID, "sample-id", "", "Sample identifier")
	return cmd
}

type targetFilterFlags struct {
	centerID string
	hasData  bool
	noData   bool
	limit    int
}

func (f *targetFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.centerID, "center-id", "", "Only targets from this sequencing center")
	cmd.Flags().BoolVar(&f.hasData, "has-data", false, "Only targets with imported data")
	cmd.Flags().BoolVar(&f.noData, "no-data", false, "Only targets without imported data")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of targets to return")
}

func (f *targetFilterFlags) filter() (registry.Filter, error) {
	filter := registry.Filter{CenterID: f.centerID, Limit: f.limit}
	if f.hasData && f.noData {
		return filter, fmt.Errorf("--has-data and --no-data are mutually exclusive")
	}
	if f.hasData || f.noData {
		value := f.hasData
		filter.HasData = &value
	}
	return filter, nil
}

func newTargetsListCommand(ctx *commandContext) *cobra.Command {
	var flags targetFilterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				targets, err := store.Targets(cmd.Context(), filter)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(targets))
				for _, target := range targets {
					rows = append(rows, []string{
						strconv.FormatInt(target.PK, 10),
						target.SystemID,
						orDash(target.CenterID),
						orDash(target.SampleID),
						orDash(target.DataType),
						strconv.Itoa(len(target.RawData)),
						formatBytes(target.StorageUsage),
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"pk", "system id", "center id", "sample id", "data type", "files", "usage"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newTargetsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show TARGET",
		Short: "Show one target including its imported files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				target, err := resolveTarget(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "System ID:      %s\n", target.SystemID)
				fmt.Fprintf(out, "Primary key:    %d\n", target.PK)
				fmt.Fprintf(out, "Center ID:      %s\n", orDash(target.CenterID))
				fmt.Fprintf(out, "Sample ID:      %s\n", orDash(target.SampleID))
				fmt.Fprintf(out, "Has data:       %s\n", yesNo(target.HasData()))
				fmt.Fprintf(out, "Data type:      %s\n", orDash(target.DataType))
				fmt.Fprintf(out, "Storage URL:    %s\n", orDash(target.StorageURL))
				fmt.Fprintf(out, "Storage usage:  %s\n", formatBytes(target.StorageUsage))

				if len(target.RawData) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(target.RawData))
				for _, file := range target.RawData {
					rows = append(rows, []string{
						file.FileURL,
						file.FileType,
						formatBytes(file.SizeBytes),
						file.Checksum,
					})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"file", "type", "size", "checksum"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newTargetsCountCommand(ctx *commandContext) *cobra.Command {
	var flags targetFilterFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count registered targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				count, err := store.CountTargets(cmd.Context(), filter)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), count)
				return nil
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newTargetsPathsCommand(ctx *commandContext) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "paths TARGET [TARGET...]",
		Short: "Print storage locations for targets",
		Long: `Print storage locations for targets.

With --pattern, print the files matching the glob inside each target's
storage directory instead of the directory itself.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *registry.Store) error {
				targets, err := resolveTargets(cmd.Context(), store, args)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, target := range targets {
					if target.StorageURL == "" {
						fmt.Fprintf(out, "%s\t(no storage allocated)\n", target.SystemID)
						continue
					}
					if pattern == "" {
						fmt.Fprintf(out, "%s\t%s\n", target.SystemID, target.StorageURL)
						continue
					}
					matches, err := filepath.Glob(filepath.Join(target.StorageURL, pattern))
					if err != nil {
						return fmt.Errorf("bad pattern %q: %w", pattern, err)
					}
					for _, match := range matches {
						fmt.Fprintf(out, "%s\t%s\n", target.SystemID, match)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob applied inside each storage directory (e.g. data/*.fastq)")
	return cmd
}
