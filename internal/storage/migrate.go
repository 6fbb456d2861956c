// ABOUTME: Data migration between storage backends
// ABOUTME: Copies the record collection from a source store into a destination store

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated records.
type MigrateSummary struct {
	Records int
	Skipped int
}

// MigrateData copies all records from src to dst, keeping IDs. Records whose
// ID already exists in dst are skipped.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	records, err := src.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}

	added, err := dst.Import(records, false)
	if err != nil {
		return nil, fmt.Errorf("import into destination: %w", err)
	}

	return &MigrateSummary{
		Records: added,
		Skipped: len(records) - added,
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
