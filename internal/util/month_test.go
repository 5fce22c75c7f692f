package util

import (
	"testing"
	"time"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestIsCurrentMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		year     int
		month    int
		expected bool
	}{
		{"same month", 2024, 3, true},
		{"previous month", 2024, 2, false},
		{"same month last year", 2023, 3, false},
		{"next month", 2024, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCurrentMonth(tt.year, tt.month, now); got != tt.expected {
				t.Errorf("IsCurrentMonth(%d, %d) = %v, want %v", tt.year, tt.month, got, tt.expected)
			}
		})
	}
}

func TestIsCurrentMonth_UsesUTC(t *testing.T) {
	// 23:30 on Mar 31 in UTC-5 is already April in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, 3, 31, 23, 30, 0, 0, loc)

	if !IsCurrentMonth(2024, 4, now) {
		t.Error("expected April 2024 to be the current UTC month")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"calendar date", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"padded", "  2024-03-05 ", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339 offset", "2024-03-05T01:00:00+02:00", time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC), true},
		{"invalid day", "2024-02-30", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if ok && got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(8); got != "August" {
		t.Errorf("MonthName(8) = %s, want August", got)
	}
}
