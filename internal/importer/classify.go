package importer

import (
	"fmt"
	"regexp"

	"seqvault/internal/services"
)

var (
	bamRE  = regexp.MustCompile(`\.bam$`)
	cramRE = regexp.MustCompile(`\.cram$`)
	// Sidecars of aligned-reads containers: index and checksum files.
	alignedIndexRE = regexp.MustCompile(`\.bai$|\.crai$|\.(bam|cram)\.md5$`)
	cramSidecarRE  = regexp.MustCompile(`\.crai$|\.cram\.md5$`)
	fastqExtRE     = regexp.MustCompile(`\.f(ast)?q(\.gz)?$`)

	// fastqShapeRE recognizes a read-index token for read 1 or 2: a
	// letter-prefixed R1/R2 adjacent to a separator anywhere before the
	// extension, or a bare numeric index directly before it.
	fastqShapeRE = map[int]*regexp.Regexp{
		1: regexp.MustCompile(fastqShapeExpr(1)),
		2: regexp.MustCompile(fastqShapeExpr(2)),
	}
)

func fastqShapeExpr(read int) string {
	return fmt.Sprintf(`(([_.]R%d[_.].+)|([_.]R%d\.)|(_%d\.))f(ast)?q(\.gz)?$`, read, read, read)
}

// Classify infers the file kind from a filename. Files that match no rule
// return KindUnknown and are discarded by the scanner. A fastq whose read
// index cannot be determined is a hard error unless singleEnd is set, in
// which case it classifies as single-end reads.
func Classify(name string, singleEnd bool) (Match, error) {
	switch {
	case bamRE.MatchString(name), cramRE.MatchString(name):
		return Match{Kind: KindAlignedReads}, nil
	case alignedIndexRE.MatchString(name):
		return Match{Kind: KindAlignedIndex}, nil
	}

	for _, read := range []int{1, 2} {
		if fastqShapeRE[read].MatchString(name) {
			return Match{Kind: KindPairedReads, Read: read}, nil
		}
	}

	if fastqExtRE.MatchString(name) {
		if singleEnd {
			return Match{Kind: KindSingleReads}, nil
		}
		return Match{}, services.Wrap(services.ErrAmbiguous, "scan", "classify",
			fmt.Sprintf("cannot determine read 1 or read 2 from: %s (pass --single-end for unpaired data)", name), nil)
	}

	return Match{Kind: KindUnknown}, nil
}

// fileType maps a match to the registry data type recorded for it.
func fileType(m Match) string {
	switch m.Kind {
	case KindAlignedReads, KindAlignedIndex:
		if cramRE.MatchString(m.Path) || cramSidecarRE.MatchString(m.Path) {
			return "CRAM"
		}
		return "BAM"
	default:
		return "FASTQ"
	}
}
