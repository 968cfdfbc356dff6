package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanDir walks root and returns every regular file with the activity
// extension. Unreadable entries are skipped. A missing root yields no files.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !IsActivityFile(d.Name()) {
			return nil
		}

		df := DiscoveredFile{Path: path}
		if fi, err := d.Info(); err == nil {
			df.Size = fi.Size()
			df.ModTime = fi.ModTime()
		}
		files = append(files, df)
		return nil
	})

	return files, err
}

// IsActivityFile reports whether name carries the activity extension.
func IsActivityFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// TotalSize sums the sizes of the discovered files.
func TotalSize(files []DiscoveredFile) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}
