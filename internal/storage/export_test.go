// ABOUTME: Tests for YAML backup and restore
// ABOUTME: Covers header fields, round trips, merge vs replace and rejected backups

package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/wxhistory/internal/models"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(NewMemoryBackend())

	snap, err := models.NewSnapshot([]byte(`{"location":{"name":"Tokyo","lat":35.69,"lon":139.69},"current":{"temp_c":8,"condition":{"code":1003,"text":"Partly cloudy"}}}`))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := store.Create(models.RecordInput{
		Location:        "Tokyo",
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-05",
		SearchDate:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		WeatherSnapshot: snap,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(models.RecordInput{
		Location:   "Nowhere",
		StartDate:  "2024-02-01",
		EndDate:    "2024-02-01",
		SearchDate: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	return store
}

func TestExportBackup(t *testing.T) {
	store := seedStore(t)
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	data, err := ExportBackup(store, now)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	yamlStr := string(data)

	if !strings.Contains(yamlStr, `version: "1.0"`) {
		t.Error("missing version header")
	}
	if !strings.Contains(yamlStr, "tool: wxhistory") {
		t.Error("missing tool header")
	}
	if !strings.Contains(yamlStr, "exported_at: 2026-01-31T12:00:00Z") {
		t.Errorf("missing exported_at header:\n%s", yamlStr)
	}
	if !strings.Contains(yamlStr, "location: Tokyo") {
		t.Error("missing location")
	}
	if !strings.Contains(yamlStr, "temp_c: 8") {
		t.Error("missing nested snapshot")
	}
}

func TestBackupRoundTrip(t *testing.T) {
	src := seedStore(t)
	data, err := ExportBackup(src, time.Now())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := NewStore(NewMemoryBackend())
	added, err := ImportBackup(dst, data, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 records added, got %d", added)
	}

	want, _ := src.GetAll(nil)
	got, _ := dst.GetAll(nil)
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Location != want[i].Location {
			t.Errorf("record %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
		if !got[i].SearchDate.Equal(want[i].SearchDate) {
			t.Errorf("record %d search date %v vs %v", i, got[i].SearchDate, want[i].SearchDate)
		}
		if got[i].WeatherSnapshot.IsZero() != want[i].WeatherSnapshot.IsZero() {
			t.Errorf("record %d snapshot presence changed", i)
		}
		gotTemp, gotOK := got[i].WeatherSnapshot.TempC()
		wantTemp, wantOK := want[i].WeatherSnapshot.TempC()
		if gotTemp != wantTemp || gotOK != wantOK {
			t.Errorf("record %d temp %v vs %v", i, gotTemp, wantTemp)
		}
		if got[i].WeatherSnapshot.ConditionCode() != want[i].WeatherSnapshot.ConditionCode() {
			t.Errorf("record %d condition code changed", i)
		}
	}

	// Importing the same backup again adds nothing.
	added, err = ImportBackup(dst, data, false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if added != 0 {
		t.Errorf("expected duplicates to be skipped, added %d", added)
	}
}

func TestImportBackup_Replace(t *testing.T) {
	dst := NewStore(NewMemoryBackend())
	if _, err := dst.Create(models.RecordInput{Location: "Old", StartDate: "2023-01-01", EndDate: "2023-01-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	backup := `version: "1.0"
exported_at: 2026-01-31T12:00:00Z
tool: wxhistory
records:
  - id: "11111111-1111-1111-1111-111111111111"
    location: "Reykjavik"
    start_date: "2024-12-14"
    end_date: "2024-12-16"
    search_date: 2024-12-14T10:00:00Z
    weather_snapshot:
      temp_c: -3
      condition_code: 1066
`
	added, err := ImportBackup(dst, []byte(backup), true)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}

	all, _ := dst.GetAll(nil)
	if len(all) != 1 {
		t.Fatalf("expected replace to leave 1 record, got %d", len(all))
	}
	rec := all[0]
	if rec.Location != "Reykjavik" {
		t.Errorf("expected Reykjavik, got %s", rec.Location)
	}
	if temp, ok := rec.WeatherSnapshot.TempC(); !ok || temp != -3 {
		t.Errorf("expected -3, got %v", temp)
	}
	if rec.WeatherSnapshot.ConditionCode() != 1066 {
		t.Errorf("expected 1066, got %d", rec.WeatherSnapshot.ConditionCode())
	}
}

func TestParseBackup_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong version", "version: \"2.0\"\ntool: wxhistory\n"},
		{"wrong tool", "version: \"1.0\"\ntool: other\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBackup([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
