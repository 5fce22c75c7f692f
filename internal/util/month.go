package util

import (
	"strings"
	"time"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// IsCurrentMonth returns true if year/month is the UTC calendar month containing now
func IsCurrentMonth(year, month int, now time.Time) bool {
	now = now.UTC()
	return year == now.Year() && month == int(now.Month())
}

// ParseDate parses a calendar date given as YYYY-MM-DD into UTC midnight.
// Full RFC 3339 timestamps are accepted too and converted to UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// MonthName returns the English name of a month (1-12)
func MonthName(month int) string {
	return time.Month(month).String()
}
