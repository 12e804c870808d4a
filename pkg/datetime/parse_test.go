package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		dateStr  string
		expected string
	}{
		{
			name:     "Valid date",
			layout:   DateLayout,
			dateStr:  "2025-01-15",
			expected: "2025-01-15",
		},
		{
			name:     "Leap day",
			layout:   DateLayout,
			dateStr:  "2028-02-29",
			expected: "2028-02-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(tt.layout, tt.dateStr)
			if result.Format(tt.layout) != tt.expected {
				t.Errorf("MustParseTime() = %s, expected %s", result.Format(tt.layout), tt.expected)
			}
		})
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateLayout, "invalid-date")
}

func TestParseOptionalDate(t *testing.T) {
	date, err := ParseOptionalDate("  ")
	if err != nil {
		t.Fatalf("ParseOptionalDate() unexpected error: %v", err)
	}
	if date != nil {
		t.Errorf("expected nil date for blank input, got %v", date)
	}

	date, err = ParseOptionalDate("2025-03-01")
	if err != nil {
		t.Fatalf("ParseOptionalDate() unexpected error: %v", err)
	}
	if date == nil || date.Format(DateLayout) != "2025-03-01" {
		t.Errorf("ParseOptionalDate() = %v, expected 2025-03-01", date)
	}

	if _, err := ParseOptionalDate("03/01/2025"); err == nil {
		t.Error("expected error for wrong layout")
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		months   int
		expected string
	}{
		{"Same day next month", "2025-01-15", 1, "2025-02-15"},
		{"Clamp to end of February", "2025-01-31", 1, "2025-02-28"},
		{"Clamp to leap day", "2028-01-31", 1, "2028-02-29"},
		{"Thirty day month", "2025-03-31", 1, "2025-04-30"},
		{"Cross year boundary", "2025-11-30", 3, "2026-02-28"},
		{"Many months keeps day", "2025-01-31", 12, "2026-01-31"},
		{"Negative offset", "2025-03-31", -1, "2025-02-28"},
		{"Zero offset", "2025-07-04", 0, "2025-07-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := MustParseTime(DateLayout, tt.start)
			result := AddMonthsClamped(start, tt.months).Format(DateLayout)
			if result != tt.expected {
				t.Errorf("AddMonthsClamped(%s, %d) = %s, expected %s", tt.start, tt.months, result, tt.expected)
			}
		})
	}
}

func TestAddYearsClamped(t *testing.T) {
	start := MustParseTime(DateLayout, "2028-02-29")
	if got := AddYearsClamped(start, 1).Format(DateLayout); got != "2029-02-28" {
		t.Errorf("AddYearsClamped() = %s, expected 2029-02-28", got)
	}
	if got := AddYearsClamped(start, 4).Format(DateLayout); got != "2032-02-29" {
		t.Errorf("AddYearsClamped() = %s, expected 2032-02-29", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected int
	}{
		{time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.date); got != tt.expected {
			t.Errorf("DaysInMonth(%s) = %d, expected %d", tt.date.Format(DateLayout), got, tt.expected)
		}
	}
}

func TestFormatScheduleDate(t *testing.T) {
	date := MustParseTime(DateLayout, "2031-09-01")
	if got := FormatScheduleDate(date); got != "09/31" {
		t.Errorf("FormatScheduleDate() = %s, expected 09/31", got)
	}
}
