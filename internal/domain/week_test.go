package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekRange(t *testing.T) {
	sunday := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	saturdayEnd := time.Date(2024, 1, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	tests := []struct {
		name   string
		anchor time.Time
	}{
		{"sunday midnight", sunday},
		{"wednesday noon", time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)},
		{"saturday late", time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := WeekRange(tt.anchor, time.UTC)
			assert.True(t, sunday.Equal(r.Start), "start %v", r.Start)
			assert.True(t, saturdayEnd.Equal(r.End), "end %v", r.End)
			assert.Equal(t, "2024-01-14", r.WeekLabel())
		})
	}
}

func TestWeekRange_UsesLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	// Sunday 03:00 UTC is still Saturday evening in PST.
	anchor := time.Date(2024, 1, 14, 3, 0, 0, 0, time.UTC)

	r := WeekRange(anchor, loc)

	assert.Equal(t, time.Sunday, r.Start.Weekday())
	assert.Equal(t, "2024-01-07", r.WeekLabel())
}

func TestTimeRange_Contains(t *testing.T) {
	r := WeekRange(time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), nil)

	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.Start.Add(-time.Nanosecond)))
	assert.False(t, r.Contains(r.End.Add(time.Millisecond)))
}

func TestUnifiedStatus(t *testing.T) {
	entries := func(statuses ...Status) []TimeEntry {
		out := make([]TimeEntry, len(statuses))
		for i, s := range statuses {
			out[i] = TimeEntry{ID: int64(i + 1), Status: s}
		}
		return out
	}

	tests := []struct {
		name     string
		entries  []TimeEntry
		expected Status
	}{
		{"empty", nil, StatusDraft},
		{"all draft", entries(StatusDraft, StatusDraft), StatusDraft},
		{"unset counts as draft", entries(""), StatusDraft},
		{"all submitted", entries(StatusSubmitted, StatusSubmitted), StatusSubmitted},
		{"submitted and draft", entries(StatusSubmitted, StatusDraft), StatusDraft},
		{"submitted and approved", entries(StatusSubmitted, StatusApproved), StatusApproved},
		{"approved and draft", entries(StatusApproved, StatusDraft), StatusApproved},
		{"rejected beats approved", entries(StatusRejected, StatusApproved), StatusRejected},
		{"single rejected", entries(StatusRejected), StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnifiedStatus(tt.entries))
		})
	}
}

func TestTotalElapsedHours(t *testing.T) {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entries := []TimeEntry{
		{StartTime: start, EndTime: start.Add(8 * time.Hour)},
		{StartTime: start, EndTime: start.Add(-time.Hour)},
		{StartTime: start, EndTime: start.Add(90 * time.Minute)},
	}

	assert.Equal(t, 9.5, TotalElapsedHours(entries))
}
