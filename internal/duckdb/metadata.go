package duckdb

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a training file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether f and o describe the same file contents as far as
// stat can tell. Modification times are compared at the microsecond
// precision DuckDB timestamps keep.
func (f FileFingerprint) Matches(o FileFingerprint) bool {
	return f.Path == o.Path &&
		f.Size == o.Size &&
		f.ModTime.UTC().Truncate(time.Microsecond).Equal(o.ModTime.UTC().Truncate(time.Microsecond))
}
