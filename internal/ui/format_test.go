// ABOUTME: Unit tests for terminal UI formatting
// ABOUTME: Tests human-readable output for records, snapshots and relative times

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/condition"
	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/weather"
)

func init() {
	color.NoColor = true
}

func testRecord(t *testing.T, snap string) *models.HistoryRecord {
	t.Helper()
	s, err := models.NewSnapshot([]byte(snap))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return &models.HistoryRecord{
		ID:              "0123456789abcdef",
		Location:        "Tokyo",
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-05",
		SearchDate:      time.Now().Add(-2 * time.Hour),
		WeatherSnapshot: s,
	}
}

const tokyoForecast = `{"current":{"temp_c":8,"humidity":55,"wind_kph":9.4,"condition":{"text":"Partly cloudy","code":1003}},
"forecast":{"forecastday":[{"date":"2024-01-02","day":{"maxtemp_c":9,"mintemp_c":3,"daily_chance_of_rain":80,"condition":{"text":"Light rain","code":1183}}}]}}`

func TestFormatRecord(t *testing.T) {
	output := FormatRecord(testRecord(t, tokyoForecast))

	for _, want := range []string{"Tokyo", "2024-01-01 → 2024-01-05", "8.0°C", "Partly cloudy", "[01234567]", "2 hours ago", "☁"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}

func TestFormatRecord_NoSnapshot(t *testing.T) {
	output := FormatRecord(testRecord(t, ""))
	if !strings.Contains(output, "no weather data") {
		t.Errorf("expected no weather message, got %q", output)
	}
}

func TestFormatRecord_Nil(t *testing.T) {
	if !strings.Contains(FormatRecord(nil), "no record") {
		t.Error("expected nil record message")
	}
}

func TestFormatRecordDetail(t *testing.T) {
	output := FormatRecordDetail(testRecord(t, tokyoForecast))

	for _, want := range []string{"0123456789abcdef", "2024-01-01 to 2024-01-05", "Category:    cloudy", "Humidity:    55%", "Forecast:", "3.0°C / 9.0°C", "(80% rain)", "☂"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected detail to contain %q, got:\n%s", want, output)
		}
	}
}

func TestFormatSnapshot_MissingReadings(t *testing.T) {
	snap, err := models.NewSnapshot([]byte(`{"current":{"condition":{"text":"Fog","code":1135}}}`))
	if err != nil {
		t.Fatal(err)
	}

	output := FormatSnapshot(snap)
	if !strings.Contains(output, "-- Fog") {
		t.Errorf("expected placeholder temperature, got:\n%s", output)
	}
	for _, unwanted := range []string{"0.0°C", "Humidity:", "Wind:"} {
		if strings.Contains(output, unwanted) {
			t.Errorf("did not expect %q, got:\n%s", unwanted, output)
		}
	}
}

func TestMapsURL(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"Tokyo", "https://www.google.com/maps/search/?api=1&query=Tokyo"},
		{"Paris, France", "https://www.google.com/maps/search/?api=1&query=Paris%2C+France"},
		{"São Paulo & Co", "https://www.google.com/maps/search/?api=1&query=S%C3%A3o+Paulo+%26+Co"},
	}
	for _, tt := range tests {
		if got := MapsURL(tt.location); got != tt.want {
			t.Errorf("MapsURL(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestFormatRecordDetail_MapLink(t *testing.T) {
	rec := testRecord(t, "")
	rec.Location = "Paris, France"

	output := FormatRecordDetail(rec)
	if !strings.Contains(output, "Map:         https://www.google.com/maps/search/?api=1&query=Paris%2C+France") {
		t.Errorf("expected map link, got:\n%s", output)
	}
}

func TestFormatCategory(t *testing.T) {
	for _, c := range condition.Categories() {
		if got := FormatCategory(c); got != c.Icon() {
			t.Errorf("FormatCategory(%s) = %q, want %q", c, got, c.Icon())
		}
	}
}

func TestFormatLocation(t *testing.T) {
	out := FormatLocation(weather.Location{Name: "Paris", Country: "France", Lat: 48.87, Lon: 2.33})
	if !strings.Contains(out, "Paris, France") || !strings.Contains(out, "(48.87, 2.33)") {
		t.Errorf("unexpected location output %q", out)
	}
}

func TestShortID(t *testing.T) {
	if ShortID("abc") != "abc" {
		t.Error("short ids should be unchanged")
	}
	if ShortID("0123456789") != "01234567" {
		t.Error("long ids should be cut to 8")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
		{-time.Hour, "in the future"},
	}
	for _, tt := range tests {
		if got := relativeTime(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
