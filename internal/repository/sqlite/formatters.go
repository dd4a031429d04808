package sqlite

import (
	"fmt"
	"time"
)

// TimestampLayout is the stored form of every timestamp: UTC with milliseconds.
// Values in this layout sort lexicographically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// DateLayout is the stored form of calendar dates
const DateLayout = "2006-01-02"

// FormatTimeForDB formats a time.Time value for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatTimePtrForDB formats a *time.Time value, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// FormatDateForDB formats a calendar date, returning nil for the zero time
func FormatDateForDB(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateLayout)
}

// ParseTimeFromDB parses a stored timestamp or date
func ParseTimeFromDB(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func parseNullTime(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return ParseTimeFromDB(*s)
}

func parseNullTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseTimeFromDB(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
