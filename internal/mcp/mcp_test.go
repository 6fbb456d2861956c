// ABOUTME: Tests for MCP server, tools, and resources
// ABOUTME: Calls the handlers directly against an in-memory store and a fake weather provider

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/wxhistory/internal/history"
	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/storage"
	"github.com/harper/wxhistory/internal/weather"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type fakeProvider struct {
	fetchErr error
}

const parisSnapshot = `{"location":{"name":"Paris","lat":48.87,"lon":2.33},"current":{"temp_c":18.5,"humidity":60,"wind_kph":11,"condition":{"text":"Light rain","code":1183}}}`

func (f *fakeProvider) FetchCurrentAndForecast(_ context.Context, _ string) (models.Snapshot, error) {
	if f.fetchErr != nil {
		return models.Snapshot{}, f.fetchErr
	}
	return models.NewSnapshot([]byte(parisSnapshot))
}

func (f *fakeProvider) SearchLocations(_ context.Context, query string) ([]weather.Location, error) {
	if strings.EqualFold(query, "nowhere") {
		return []weather.Location{}, nil
	}
	return []weather.Location{{Name: "Paris", Country: "France"}}, nil
}

func testServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend())
	clock := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	svc := history.NewService(store, &fakeProvider{}, history.WithClock(clock))
	s, err := NewServer(svc, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s, store
}

func seed(t *testing.T, store *storage.Store, location, start, end string, searched time.Time) *models.HistoryRecord {
	t.Helper()
	rec, err := store.Create(models.RecordInput{Location: location, StartDate: start, EndDate: end, SearchDate: searched})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return rec
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewServer_RequiresService(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestSearchWeather(t *testing.T) {
	s, store := testServer(t)

	_, out, err := s.handleSearchWeather(context.Background(), nil, SearchWeatherInput{Location: "Paris"})
	if err != nil {
		t.Fatalf("search_weather failed: %v", err)
	}
	if out.TempC == nil || *out.TempC != 18.5 || out.Category != "rainy" || out.Condition != "Light rain" {
		t.Errorf("unexpected output %+v", out)
	}
	if out.Humidity == nil || *out.Humidity != 60 {
		t.Errorf("unexpected output %+v", out)
	}
	if n, _ := store.Count(); n != 0 {
		t.Errorf("search must not save, got %d records", n)
	}
}

func TestSaveRecord(t *testing.T) {
	s, store := testServer(t)

	result, out, err := s.handleSaveRecord(context.Background(), nil, SaveRecordInput{
		Location:  "paris",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-07",
	})
	if err != nil {
		t.Fatalf("save_record failed: %v", err)
	}
	if out.Location != "Paris" {
		t.Errorf("expected resolved name Paris, got %q", out.Location)
	}
	if out.SearchDate != time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected search date %v", out.SearchDate)
	}
	if !strings.Contains(resultText(t, result), `"start_date": "2024-06-01"`) {
		t.Error("expected start date in text content")
	}
	if n, _ := store.Count(); n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}
}

func TestSaveRecord_Rejects(t *testing.T) {
	s, store := testServer(t)
	ctx := context.Background()

	_, _, err := s.handleSaveRecord(ctx, nil, SaveRecordInput{Location: "Paris", StartDate: "2024-06-07", EndDate: "2024-06-01"})
	if !history.IsValidation(err) {
		t.Errorf("expected validation error for reversed range, got %v", err)
	}

	_, _, err = s.handleSaveRecord(ctx, nil, SaveRecordInput{Location: "Nowhere", StartDate: "2024-06-01", EndDate: "2024-06-01"})
	if !history.IsValidation(err) {
		t.Errorf("expected validation error for unknown location, got %v", err)
	}

	if n, _ := store.Count(); n != 0 {
		t.Errorf("rejected saves must not store, got %d", n)
	}
}

func TestListRecords(t *testing.T) {
	s, store := testServer(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seed(t, store, "Paris", "2024-06-01", "2024-06-05", base)
	seed(t, store, "Tokyo", "2024-01-01", "2024-01-05", base.Add(time.Hour))
	seed(t, store, "paris", "2024-07-01", "2024-07-05", base.Add(2*time.Hour))

	_, out, err := s.handleListRecords(context.Background(), nil, ListRecordsInput{})
	if err != nil {
		t.Fatalf("list_records failed: %v", err)
	}
	if out.Count != 3 || out.Records[0].Location != "paris" {
		t.Errorf("expected 3 records newest first, got %+v", out)
	}

	_, out, err = s.handleListRecords(context.Background(), nil, ListRecordsInput{Location: "PAR", EndDate: "2024-06-30"})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if out.Count != 1 || out.Records[0].StartDate != "2024-06-01" {
		t.Errorf("expected only the June Paris record, got %+v", out)
	}
}

func TestListRecords_Empty(t *testing.T) {
	s, _ := testServer(t)

	result, out, err := s.handleListRecords(context.Background(), nil, ListRecordsInput{})
	if err != nil {
		t.Fatalf("list_records failed: %v", err)
	}
	if out.Count != 0 || out.Records == nil {
		t.Errorf("expected empty non-nil list, got %+v", out)
	}
	if !strings.Contains(resultText(t, result), `"records": []`) {
		t.Error("expected empty JSON array")
	}
}

func TestGetRecord(t *testing.T) {
	s, _ := testServer(t)
	ctx := context.Background()

	_, saved, err := s.handleSaveRecord(ctx, nil, SaveRecordInput{Location: "Paris", StartDate: "2024-06-01", EndDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, out, err := s.handleGetRecord(ctx, nil, RecordIDInput{ID: saved.ID})
	if err != nil {
		t.Fatalf("get_record failed: %v", err)
	}
	doc, ok := out.WeatherSnapshot.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded snapshot object, got %T", out.WeatherSnapshot)
	}
	if _, ok := doc["current"]; !ok {
		t.Error("expected current conditions in snapshot")
	}

	_, _, err = s.handleGetRecord(ctx, nil, RecordIDInput{ID: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRecord(t *testing.T) {
	s, store := testServer(t)
	rec := seed(t, store, "Paris", "2024-06-01", "2024-06-05", time.Now())
	end := "2024-06-10"

	_, out, err := s.handleUpdateRecord(context.Background(), nil, UpdateRecordInput{ID: rec.ID, EndDate: &end})
	if err != nil {
		t.Fatalf("update_record failed: %v", err)
	}
	if out.EndDate != end || out.StartDate != "2024-06-01" || out.Location != "Paris" {
		t.Errorf("unexpected update result %+v", out)
	}

	start := "2024-07-01"
	_, _, err = s.handleUpdateRecord(context.Background(), nil, UpdateRecordInput{ID: rec.ID, StartDate: &start})
	if !history.IsValidation(err) {
		t.Errorf("expected validation error when start passes end, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	s, store := testServer(t)
	rec := seed(t, store, "Paris", "2024-06-01", "2024-06-05", time.Now())

	_, out, err := s.handleDeleteRecord(context.Background(), nil, RecordIDInput{ID: rec.ID})
	if err != nil {
		t.Fatalf("delete_record failed: %v", err)
	}
	if !out.Deleted {
		t.Error("expected deleted=true")
	}

	_, out, err = s.handleDeleteRecord(context.Background(), nil, RecordIDInput{ID: rec.ID})
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if out.Deleted {
		t.Error("expected deleted=false for unknown id")
	}
}

func TestClearRecords(t *testing.T) {
	s, store := testServer(t)
	seed(t, store, "Paris", "2024-06-01", "2024-06-05", time.Now())
	seed(t, store, "Tokyo", "2024-06-01", "2024-06-05", time.Now())

	if _, _, err := s.handleClearRecords(context.Background(), nil, ClearRecordsInput{}); err == nil {
		t.Error("expected clear without confirm to fail")
	}
	if n, _ := store.Count(); n != 2 {
		t.Fatalf("records should survive unconfirmed clear, got %d", n)
	}

	_, out, err := s.handleClearRecords(context.Background(), nil, ClearRecordsInput{Confirm: true})
	if err != nil {
		t.Fatalf("clear_records failed: %v", err)
	}
	if out.Cleared != 2 {
		t.Errorf("expected 2 cleared, got %d", out.Cleared)
	}
	if n, _ := store.Count(); n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}
}

func TestExportRecords(t *testing.T) {
	s, store := testServer(t)
	seed(t, store, "Paris", "2024-06-01", "2024-06-05", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	result, out, err := s.handleExportRecords(context.Background(), nil, ExportRecordsInput{Format: "csv"})
	if err != nil {
		t.Fatalf("export_records failed: %v", err)
	}
	if out.FileName != "weather-history.csv" || out.Records != 1 {
		t.Errorf("unexpected export output %+v", out)
	}
	if !strings.HasPrefix(resultText(t, result), "ID,Location,") {
		t.Errorf("expected CSV header, got %q", out.Content)
	}

	_, out, err = s.handleExportRecords(context.Background(), nil, ExportRecordsInput{Format: "json"})
	if err != nil {
		t.Fatalf("json export failed: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out.Content), &decoded); err != nil {
		t.Fatalf("json export is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Errorf("expected 1 exported record, got %d", len(decoded))
	}

	if _, _, err := s.handleExportRecords(context.Background(), nil, ExportRecordsInput{Format: "pdf"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestClassifyCondition(t *testing.T) {
	s, _ := testServer(t)

	_, out, err := s.handleClassifyCondition(context.Background(), nil, ClassifyConditionInput{Code: 1000})
	if err != nil {
		t.Fatalf("classify_condition failed: %v", err)
	}
	if out.Category != "sunny" || !out.Known || out.Icon == "" {
		t.Errorf("unexpected classification %+v", out)
	}

	_, out, _ = s.handleClassifyCondition(context.Background(), nil, ClassifyConditionInput{Code: 4242})
	if out.Category != "cloudy" || out.Known {
		t.Errorf("unknown codes should default to cloudy, got %+v", out)
	}
}

func TestRecordsResource(t *testing.T) {
	s, store := testServer(t)
	seed(t, store, "Paris", "2024-06-01", "2024-06-05", time.Now())

	result, err := s.handleRecordsResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("records resource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != recordsURI {
		t.Fatalf("unexpected contents %+v", result.Contents)
	}
	var out ListRecordsOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &out); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if out.Count != 1 || out.Records[0].Location != "Paris" {
		t.Errorf("unexpected resource body %+v", out)
	}
}

func TestConditionsResource(t *testing.T) {
	s, _ := testServer(t)

	result, err := s.handleConditionsResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("conditions resource failed: %v", err)
	}
	var groups []ConditionGroup
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &groups); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if len(groups) != 5 || groups[0].Category != "sunny" || groups[0].Codes[0] != 1000 {
		t.Errorf("unexpected condition groups %+v", groups)
	}
}
