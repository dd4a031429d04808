package domain

import (
	"math"
	"strings"
	"time"

	apperrors "timesheet-tracker/internal/errors"
)

// LenientHours returns elapsed hours rounded to two decimals. A range that
// ends at or before its start yields 0.
func LenientHours(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	hours := end.Sub(start).Hours()
	return math.Round(hours*100) / 100
}

// StrictBillableHours returns elapsed hours rounded to the nearest quarter
// hour. It fails when end is not after start.
func StrictBillableHours(start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, apperrors.NewNegativeDurationError(start, end)
	}
	hours := end.Sub(start).Hours()
	return math.Round(hours*4) / 4, nil
}

// LenientHoursBetween parses both timestamps and applies LenientHours.
func LenientHoursBetween(start, end string) (float64, error) {
	s, e, err := parseRange(start, end)
	if err != nil {
		return 0, err
	}
	return LenientHours(s, e), nil
}

// StrictBillableHoursBetween parses both timestamps and applies StrictBillableHours.
func StrictBillableHoursBetween(start, end string) (float64, error) {
	s, e, err := parseRange(start, end)
	if err != nil {
		return 0, err
	}
	return StrictBillableHours(s, e)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewInvalidInputError("start_time", start, "not a valid timestamp")
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewInvalidInputError("end_time", end, "not a valid timestamp")
	}
	return s, e, nil
}

// Layouts accepted by ParseTimestamp, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 style timestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return ParseTimestampIn(value, time.UTC)
}

// ParseTimestampIn is ParseTimestamp with offset-less values read in loc.
func ParseTimestampIn(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatTimestamp renders t as ISO-8601 in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
