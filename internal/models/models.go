// ABOUTME: Core data models for saved weather searches
// ABOUTME: Defines history records, partial updates, filters and input validation

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/wxhistory/internal/condition"
)

// DateLayout is the calendar-date format used for record date ranges.
const DateLayout = "2006-01-02"

// HistoryRecord is a single saved weather search.
type HistoryRecord struct {
	ID              string    `json:"id"`
	Location        string    `json:"location"`
	StartDate       string    `json:"startDate"`
	EndDate         string    `json:"endDate"`
	SearchDate      time.Time `json:"searchDate"`
	WeatherSnapshot Snapshot  `json:"weatherSnapshot"`
}

// RecordInput carries every record field except the generated ID.
type RecordInput struct {
	Location        string
	StartDate       string
	EndDate         string
	SearchDate      time.Time
	WeatherSnapshot Snapshot
}

// RecordPatch is a partial update. Nil fields keep their stored value.
// There is no ID field: a record keeps its ID for its whole lifetime.
type RecordPatch struct {
	Location        *string
	StartDate       *string
	EndDate         *string
	SearchDate      *time.Time
	WeatherSnapshot *Snapshot
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.Location == nil && p.StartDate == nil && p.EndDate == nil &&
		p.SearchDate == nil && p.WeatherSnapshot == nil
}

// Filter narrows a retrieval. Empty fields place no constraint on that dimension.
type Filter struct {
	Location  string `json:"location,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// IsEmpty reports whether the filter has no constraints.
func (f Filter) IsEmpty() bool {
	return f.Location == "" && f.StartDate == "" && f.EndDate == ""
}

// NewRecord builds a record from input and an already generated ID.
func NewRecord(id string, in RecordInput) *HistoryRecord {
	return &HistoryRecord{
		ID:              id,
		Location:        in.Location,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		SearchDate:      in.SearchDate,
		WeatherSnapshot: in.WeatherSnapshot,
	}
}

// Apply merges a patch onto a copy of the record and returns the copy.
func (r *HistoryRecord) Apply(p RecordPatch) *HistoryRecord {
	out := *r
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}
	if p.SearchDate != nil {
		out.SearchDate = *p.SearchDate
	}
	if p.WeatherSnapshot != nil {
		out.WeatherSnapshot = *p.WeatherSnapshot
	}
	return &out
}

// Category classifies the snapshot's current condition code.
func (r *HistoryRecord) Category() condition.Category {
	return condition.Classify(r.WeatherSnapshot.ConditionCode())
}

// ParseDate parses a calendar date in YYYY-MM-DD form. A full RFC3339
// timestamp is also accepted and truncated to its date part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
}

// FormatDate renders a time as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateLocationName checks that a location name is non-empty and within length limits.
func ValidateLocationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("location cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("location too long (max 255 characters)")
	}
	return nil
}

// ValidateDateRange checks both dates parse and start is not after end.
func ValidateDateRange(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if s.After(e) {
		return fmt.Errorf("start date %s cannot be after end date %s", start, end)
	}
	return nil
}
