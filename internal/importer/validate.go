package importer

import (
	"fmt"
	"sort"
	"strings"

	"seqvault/internal/services"
)

// ValidateMatchSet enforces per-target consistency: every target's matches
// must collapse to a single data category (paired and single reads count as
// one sequence category, containers and sidecars as one alignment
// category). Violations are fatal for the whole invocation and are raised
// before any relocation occurs.
func ValidateMatchSet(set *MatchSet) error {
	for _, entry := range set.Targets() {
		if len(entry.Files) == 0 {
			continue
		}

		categories := map[string]struct{}{}
		for _, match := range entry.Files {
			categories[match.Kind.category()] = struct{}{}
		}
		if len(categories) <= 1 {
			continue
		}

		names := make([]string, 0, len(categories))
		for category := range categories {
			names = append(names, category)
		}
		sort.Strings(names)

		paths := make([]string, 0, len(entry.Files))
		for _, match := range entry.Files {
			paths = append(paths, match.Path)
		}

		return services.Wrap(services.ErrAmbiguous, "validate", "match set",
			fmt.Sprintf("multiple data formats (%s) matched for %s, which is not supported: %s",
				strings.Join(names, ", "), entry.Target.SystemID, strings.Join(paths, ", ")), nil)
	}
	return nil
}
