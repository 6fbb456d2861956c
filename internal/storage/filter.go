// ABOUTME: Filter engine for weather history retrieval
// ABOUTME: Matches records on location substring and date bounds, sorts newest first

package storage

import (
	"sort"
	"strings"

	"github.com/harper/wxhistory/internal/models"
)

// Matches reports whether rec satisfies every constraint set in f.
func Matches(f models.Filter, rec *models.HistoryRecord) bool {
	if f.Location != "" &&
		!strings.Contains(strings.ToLower(rec.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.StartDate != "" {
		cmp, ok := compareDates(rec.StartDate, f.StartDate)
		if !ok || cmp < 0 {
			return false
		}
	}
	if f.EndDate != "" {
		cmp, ok := compareDates(rec.EndDate, f.EndDate)
		if !ok || cmp > 0 {
			return false
		}
	}
	return true
}

// compareDates compares two calendar dates. ok is false if either fails to parse,
// in which case the constraint does not hold.
func compareDates(a, b string) (cmp int, ok bool) {
	ta, err := models.ParseDate(a)
	if err != nil {
		return 0, false
	}
	tb, err := models.ParseDate(b)
	if err != nil {
		return 0, false
	}
	return ta.Compare(tb), true
}

// ApplyFilter returns the records matching f, preserving input order.
// A nil filter matches everything.
func ApplyFilter(f *models.Filter, records []*models.HistoryRecord) []*models.HistoryRecord {
	out := make([]*models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if f == nil || Matches(*f, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// SortBySearchDateDesc orders records most recent search first.
func SortBySearchDateDesc(records []*models.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SearchDate.After(records[j].SearchDate)
	})
}
