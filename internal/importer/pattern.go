package importer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"seqvault/internal/registry"
	"seqvault/internal/services"
)

// KeyFunc extracts the matching identifier for a target. An empty string
// means the identifier is null and the target cannot match any file.
type KeyFunc func(registry.Target) (string, error)

// FieldKey builds a KeyFunc reading the named registry field (system_id,
// center_id, or sample_id). Unknown fields surface as configuration errors
// during pattern compilation, before any filesystem access.
func FieldKey(field string) KeyFunc {
	return func(t registry.Target) (string, error) {
		return t.Identifier(field)
	}
}

// Pattern is the combined matcher compiled from all eligible targets. Each
// target contributes one named alternative. The leftmost match in the path
// wins; when two alternatives match at the same position, ascending
// primary key order breaks the tie deterministically.
type Pattern struct {
	re     *regexp.Regexp
	groups map[string]int64
}

// Empty reports whether no target was eligible for matching. An empty
// pattern matches nothing and the scanner is skipped entirely.
func (p *Pattern) Empty() bool {
	return p == nil || p.re == nil
}

// Match applies the pattern to a path and returns the primary key of the
// participating group of the leftmost match.
func (p *Pattern) Match(path string) (int64, bool) {
	if p.Empty() {
		return 0, false
	}
	indexes := p.re.FindStringSubmatchIndex(path)
	if indexes == nil {
		return 0, false
	}
	for i, name := range p.re.SubexpNames() {
		if name == "" {
			continue
		}
		if indexes[2*i] >= 0 {
			if pk, ok := p.groups[name]; ok {
				return pk, true
			}
		}
	}
	return 0, false
}

// CompilePattern builds the combined identifier pattern and the initial
// match set for the supplied targets. Targets with recorded data or a null
// identifier are excluded from the pattern but still appear in the match
// set for reporting. A duplicate non-null identifier across two targets is
// a configuration error raised before any filesystem access.
func CompilePattern(targets []registry.Target, key KeyFunc) (*Pattern, *MatchSet, error) {
	ordered := make([]registry.Target, len(targets))
	copy(ordered, targets)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].PK < ordered[j].PK })

	set := newMatchSet()
	groups := map[string]int64{}
	seen := map[string]string{}
	var alternatives []string

	for _, target := range ordered {
		identifier, err := key(target)
		if err != nil {
			return nil, nil, services.Wrap(services.ErrConfiguration, "pattern", "extract identifier",
				fmt.Sprintf("target %s: %v", target.SystemID, err), nil)
		}

		if identifier != "" {
			if other, ok := seen[identifier]; ok {
				return nil, nil, services.Wrap(services.ErrConfiguration, "pattern", "compile",
					fmt.Sprintf("cannot use the same identifier for %s and %s: %s", target.SystemID, other, identifier), nil)
			}
			seen[identifier] = target.SystemID
		}

		switch {
		case target.HasData():
			set.add(target, fmt.Sprintf("%s (already has data)", target.SystemID))
		case identifier == "":
			set.add(target, fmt.Sprintf("%s (skipped, identifier is NULL)", target.SystemID))
		default:
			group := groupName(target.PK)
			groups[group] = target.PK
			alternatives = append(alternatives, identifierPattern(group, identifier))
			set.add(target, fmt.Sprintf("%s (using %s)", target.SystemID, identifier))
		}
	}

	if len(alternatives) == 0 {
		return &Pattern{}, set, nil
	}

	re, err := regexp.Compile(strings.Join(alternatives, "|"))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "pattern", "compile", "combined identifier pattern is invalid", err)
	}
	return &Pattern{re: re, groups: groups}, set, nil
}

func groupName(pk int64) string {
	return fmt.Sprintf("t%d", pk)
}

// identifierPattern builds the per-target alternative: separators inside
// the identifier match any of -_. interchangeably, and the identifier must
// appear as a delimiter-bounded token in the path: preceded by start of
// string, a path separator, or a name separator, and followed by a name
// separator.
func identifierPattern(group, identifier string) string {
	var b strings.Builder
	for _, r := range identifier {
		switch r {
		case '-', '_', '.':
			b.WriteString(`[-_.]`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return fmt.Sprintf(`(?P<%s>(^|[/._-])%s[-_.])`, group, b.String())
}
