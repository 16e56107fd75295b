package utils

import (
	"fmt"
	"time"
)

// CalendarDateLayout is the wire format for calendar dates.
const CalendarDateLayout = "2006-01-02"

// EpochMillis converts a time to epoch milliseconds.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis converts epoch milliseconds back to a UTC time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ParseCalendarDate parses a YYYY-MM-DD string as midnight UTC.
func ParseCalendarDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CalendarDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t, nil
}

// FormatCalendarDate renders a time as a YYYY-MM-DD string in UTC.
func FormatCalendarDate(t time.Time) string {
	return t.UTC().Format(CalendarDateLayout)
}
