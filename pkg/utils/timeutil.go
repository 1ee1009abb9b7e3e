package utils

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used by EDGAR and in results.
const DateLayout = "2006-01-02"

// dateLayouts are the formats seen in EDGAR and market payloads.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05.000Z",
	"01/02/2006",
	time.RFC3339,
	"20060102",
}

// ParseDate parses a calendar date in any of the common EDGAR formats.
// The result is truncated to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// YearsBefore returns the same calendar date n years before t.
func YearsBefore(t time.Time, n int) time.Time {
	return t.AddDate(-n, 0, 0)
}
