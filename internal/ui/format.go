// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for saved searches and weather snapshots

package ui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/wxhistory/internal/condition"
	"github.com/harper/wxhistory/internal/models"
	"github.com/harper/wxhistory/internal/weather"
)

var faint = color.New(color.Faint)

// ShortID returns the first 8 characters of an ID for compact display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// FormatCategory renders a category glyph in its color.
func FormatCategory(c condition.Category) string {
	switch c {
	case condition.Clear:
		return color.YellowString(c.Icon())
	case condition.Precipitation:
		return color.BlueString(c.Icon())
	case condition.Frozen:
		return color.CyanString(c.Icon())
	case condition.Severe:
		return color.MagentaString(c.Icon())
	default:
		return faint.Sprint(c.Icon())
	}
}

// FormatTemp renders a Celsius reading.
func FormatTemp(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}

// FormatRecord formats a record as a single list line.
func FormatRecord(rec *models.HistoryRecord) string {
	if rec == nil {
		return faint.Sprint("(no record)")
	}
	snap := rec.WeatherSnapshot
	weatherStr := faint.Sprint("no weather data")
	if !snap.IsZero() {
		parts := []string{}
		if temp, ok := snap.TempC(); ok {
			parts = append(parts, FormatTemp(temp))
		}
		if text := snap.ConditionText(); text != "" {
			parts = append(parts, text)
		}
		if len(parts) > 0 {
			weatherStr = strings.Join(parts, " ")
		}
	}
	return fmt.Sprintf("%s %s %s  %s %s - %s",
		FormatCategory(rec.Category()),
		color.GreenString(rec.Location),
		faint.Sprintf("%s → %s", rec.StartDate, rec.EndDate),
		weatherStr,
		faint.Sprintf("[%s]", ShortID(rec.ID)),
		faint.Sprint(FormatRelativeTime(rec.SearchDate)))
}

// MapsURL returns a Google Maps search link for a location.
func MapsURL(location string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(location)
}

// FormatRecordDetail formats every field of a record over several lines.
func FormatRecordDetail(rec *models.HistoryRecord) string {
	if rec == nil {
		return faint.Sprint("(no record)")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", FormatCategory(rec.Category()), color.New(color.Bold).Sprint(rec.Location))
	fmt.Fprintf(&b, "  ID:          %s\n", rec.ID)
	fmt.Fprintf(&b, "  Date range:  %s to %s\n", rec.StartDate, rec.EndDate)
	fmt.Fprintf(&b, "  Searched:    %s (%s)\n",
		rec.SearchDate.Local().Format("Jan 2 2006, 3:04 PM"), FormatRelativeTime(rec.SearchDate))
	fmt.Fprintf(&b, "  Category:    %s\n", rec.Category())
	fmt.Fprintf(&b, "  Map:         %s\n", MapsURL(rec.Location))
	if rec.WeatherSnapshot.IsZero() {
		b.WriteString(faint.Sprint("  (no weather data)") + "\n")
		return b.String()
	}
	b.WriteString(FormatSnapshot(rec.WeatherSnapshot))
	return b.String()
}

// FormatSnapshot formats current conditions and the forecast days held in a snapshot.
func FormatSnapshot(snap models.Snapshot) string {
	var b strings.Builder
	cat := condition.Classify(snap.ConditionCode())

	temp := "--"
	if c, ok := snap.TempC(); ok {
		temp = FormatTemp(c)
	}
	fmt.Fprintf(&b, "  Now:         %s %s %s\n", FormatCategory(cat), temp, snap.ConditionText())
	if h, ok := snap.Humidity(); ok {
		fmt.Fprintf(&b, "  Humidity:    %.0f%%\n", h)
	}
	if w, ok := snap.WindKph(); ok {
		fmt.Fprintf(&b, "  Wind:        %.1f km/h\n", w)
	}

	f, err := weather.DecodeForecast(snap)
	if err != nil || len(f.Forecast.Days) == 0 {
		return b.String()
	}
	b.WriteString("  Forecast:\n")
	for _, day := range f.Forecast.Days {
		dayCat := condition.Classify(day.Day.Condition.Code)
		fmt.Fprintf(&b, "    %s %s  %s / %s  %s %s\n",
			day.Date,
			FormatCategory(dayCat),
			FormatTemp(day.Day.MinTempC),
			FormatTemp(day.Day.MaxTempC),
			day.Day.Condition.Text,
			faint.Sprintf("(%d%% rain)", day.Day.DailyChanceOfRain))
	}
	return b.String()
}

// FormatLocation formats a search suggestion.
func FormatLocation(loc weather.Location) string {
	return fmt.Sprintf("%s %s", color.GreenString(loc.Label()),
		faint.Sprintf("(%.2f, %.2f)", loc.Lat, loc.Lon))
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	return relativeTime(time.Now(), t)
}

func relativeTime(now, t time.Time) string {
	diff := now.Sub(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	default:
		return plural(int(diff.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
