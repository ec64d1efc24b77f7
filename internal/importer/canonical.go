package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"seqvault/internal/services"
)

var (
	// letterIndexFastqRE strips a trailing _R1./
	// .R1. token directly before the extension.
	letterIndexFastqRE = map[int]*regexp.Regexp{
		1: regexp.MustCompile(`[_.]R1([_.])?\.f(ast)?q`),
		2: regexp.MustCompile(`[_.]R2([_.])?\.f(ast)?q`),
	}
	// numberIndexFastqRE strips a bare numeric index directly before the
	// extension.
	numberIndexFastqRE = map[int]*regexp.Regexp{
		1: regexp.MustCompile(`[_.]1([_.])?\.f(ast)?q`),
		2: regexp.MustCompile(`[_.]2([_.])?\.f(ast)?q`),
	}
	// letterIndexAnyRE strips an interior _R1_ token wherever it occurs.
	letterIndexAnyRE = map[int]*regexp.Regexp{
		1: regexp.MustCompile(`[_.]R1[_.]`),
		2: regexp.MustCompile(`[_.]R2[_.]`),
	}
	fastqTailRE = regexp.MustCompile(`[_.]f(ast)?q`)
)

// CanonicalReadName rewrites a paired-end fastq filename into its canonical
// form: the read-index token is stripped from wherever it occurs and a
// canonical _<prefix><read>.fastq suffix is appended before the extension,
// preserving any .gz compression suffix. The transformation is idempotent.
func CanonicalReadName(name, prefix string) (string, error) {
	read := 0
	for _, candidate := range []int{1, 2} {
		if fastqShapeRE[candidate].MatchString(name) {
			read = candidate
			break
		}
	}
	if read == 0 {
		return "", services.Wrap(services.ErrAmbiguous, "canonicalize", "read index",
			fmt.Sprintf("cannot determine read 1 or read 2 from: %s", name), nil)
	}

	suffix := fmt.Sprintf("_%s%d.fastq", prefix, read)
	name = letterIndexFastqRE[read].ReplaceAllString(name, ".fastq")
	name = numberIndexFastqRE[read].ReplaceAllString(name, ".fastq")
	name = letterIndexAnyRE[read].ReplaceAllString(name, "_")
	return fastqTailRE.ReplaceAllString(name, suffix), nil
}

// DestinationName computes the basename a match is relocated under: the
// canonical name for paired reads, a normalized extension for single-end
// reads, and the original basename for everything else. Names that do not
// already start with the target's system ID are prefixed with it so targets
// sharing a directory cannot collide.
func DestinationName(m Match, systemID, prefix string) (string, error) {
	name := filepath.Base(m.Path)

	switch m.Kind {
	case KindPairedReads:
		canonical, err := CanonicalReadName(name, prefix)
		if err != nil {
			return "", err
		}
		name = canonical
	case KindSingleReads:
		name = fastqExtRE.ReplaceAllString(name, ".fastq${2}")
	}

	if !strings.HasPrefix(name, systemID) {
		name = systemID + "__" + name
	}
	return name, nil
}
