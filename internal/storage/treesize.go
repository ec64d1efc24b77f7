package storage

import (
	"io/fs"
	"path/filepath"
)

// TreeSize sums the apparent sizes of all regular files beneath path.
// Symlinks are not followed; unreadable entries are skipped.
func TreeSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}
