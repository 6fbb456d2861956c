// ABOUTME: Backup and restore for weather history records
// ABOUTME: Uses a versioned YAML format so backups stay human-readable

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/wxhistory/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

const backupTool = "wxhistory"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string         `yaml:"version"`
	ExportedAt time.Time      `yaml:"exported_at"`
	Tool       string         `yaml:"tool"`
	Records    []RecordBackup `yaml:"records"`
}

// RecordBackup represents a record in the backup format. The snapshot is kept
// as a nested document; key order is not preserved across a restore.
type RecordBackup struct {
	ID              string    `yaml:"id"`
	Location        string    `yaml:"location"`
	StartDate       string    `yaml:"start_date"`
	EndDate         string    `yaml:"end_date"`
	SearchDate      time.Time `yaml:"search_date"`
	WeatherSnapshot any       `yaml:"weather_snapshot,omitempty"`
}

// ExportBackup serializes every record in repo.
func ExportBackup(repo Repository, now time.Time) ([]byte, error) {
	records, err := repo.GetAll(nil)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: now.UTC(),
		Tool:       backupTool,
		Records:    make([]RecordBackup, len(records)),
	}

	for i, rec := range records {
		rb := RecordBackup{
			ID:         rec.ID,
			Location:   rec.Location,
			StartDate:  rec.StartDate,
			EndDate:    rec.EndDate,
			SearchDate: rec.SearchDate,
		}
		if !rec.WeatherSnapshot.IsZero() {
			var doc any
			if err := rec.WeatherSnapshot.Decode(&doc); err != nil {
				return nil, fmt.Errorf("decode snapshot for %s: %w", rec.ID, err)
			}
			rb.WeatherSnapshot = doc
		}
		backup.Records[i] = rb
	}

	return yaml.Marshal(backup)
}

// ParseBackup decodes and validates a YAML backup.
func ParseBackup(data []byte) ([]*models.HistoryRecord, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != backupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, backupTool)
	}

	records := make([]*models.HistoryRecord, 0, len(backup.Records))
	for _, rb := range backup.Records {
		rec := &models.HistoryRecord{
			ID:         rb.ID,
			Location:   rb.Location,
			StartDate:  rb.StartDate,
			EndDate:    rb.EndDate,
			SearchDate: rb.SearchDate.UTC(),
		}
		if rb.WeatherSnapshot != nil {
			raw, err := json.Marshal(rb.WeatherSnapshot)
			if err != nil {
				return nil, fmt.Errorf("encode snapshot for %s: %w", rb.ID, err)
			}
			snap, err := models.NewSnapshot(raw)
			if err != nil {
				return nil, fmt.Errorf("snapshot for %s: %w", rb.ID, err)
			}
			rec.WeatherSnapshot = snap
		}
		records = append(records, rec)
	}
	return records, nil
}

// ImportBackup restores a YAML backup into repo and returns the number of records added.
func ImportBackup(repo Repository, data []byte, replace bool) (int, error) {
	records, err := ParseBackup(data)
	if err != nil {
		return 0, err
	}
	return repo.Import(records, replace)
}
