// Package timex contains calendar-day helpers used by the journal data model
// and a JSON-friendly Duration wrapper used by config loading.
package timex

import (
	"fmt"
	"time"
)

// DayKeyLayout is the unambiguous calendar-day format used as the natural key
// of a journal entry, both locally and in the remote document collection.
const DayKeyLayout = "2006-01-02"

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as a YYYY-MM-DD string in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD string into midnight of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// MonthRange returns the half-open interval [first, next) covering the given
// calendar month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, 0)
}
