// Package datetime provides date and time utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/finance-calculator/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and request payloads.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseOptionalDate parses a date in DateLayout. A blank string yields a nil
// date and no error.
func ParseOptionalDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// AddMonthsClamped offsets start by the given number of months, keeping the
// day of month where possible and clamping to the last day of shorter months
// (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(start time.Time, months int) time.Time {
	year, month, day := start.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())

	if last := DaysInMonth(firstOfTarget); day > last {
		day = last
	}
	return firstOfTarget.AddDate(0, 0, day-1)
}

// AddYearsClamped offsets start by whole years, mapping Feb 29 onto Feb 28 in
// non-leap years.
func AddYearsClamped(start time.Time, years int) time.Time {
	return AddMonthsClamped(start, years*constants.MonthsPerYear)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	year, month, _ := t.Date()
	return time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// FormatScheduleDate renders a schedule date as MM/YY.
func FormatScheduleDate(t time.Time) string {
	return t.Format(constants.ScheduleDateLayout)
}
