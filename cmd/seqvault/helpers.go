package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"seqvault/internal/registry"
)

// resolveTarget accepts either a numeric primary key or a system ID.
func resolveTarget(ctx context.Context, store *registry.Store, arg string) (*registry.Target, error) {
	arg = strings.TrimSpace(arg)
	if pk, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return store.GetByPK(ctx, pk)
	}
	return store.GetBySystemID(ctx, arg)
}

func resolveTargets(ctx context.Context, store *registry.Store, args []string) ([]registry.Target, error) {
	targets := make([]registry.Target, 0, len(args))
	for _, arg := range args {
		target, err := resolveTarget(ctx, store, arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, *target)
	}
	return targets, nil
}

// mergeTargets appends extras not already present by primary key.
func mergeTargets(targets, extras []registry.Target) []registry.Target {
	seen := make(map[int64]struct{}, len(targets))
	for _, target := range targets {
		seen[target.PK] = struct{}{}
	}
	for _, target := range extras {
		if _, ok := seen[target.PK]; ok {
			continue
		}
		seen[target.PK] = struct{}{}
		targets = append(targets, target)
	}
	return targets
}

func formatBytes(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
