package domain

import (
	"time"
)

// TimeRange is an inclusive interval of instants.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End].
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// WeekRange returns the Sunday 00:00:00.000 to Saturday 23:59:59.999 week
// containing anchor, with day boundaries taken in loc. A nil loc means UTC.
func WeekRange(anchor time.Time, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.UTC
	}
	local := anchor.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return TimeRange{Start: start, End: end}
}

// WeekLabel formats the first day of the week as YYYY-MM-DD.
func (r TimeRange) WeekLabel() string {
	return r.Start.Format("2006-01-02")
}

// UnifiedStatus collapses the statuses of a week's entries into one.
// Precedence is rejected, approved, submitted, then draft.
func UnifiedStatus(entries []TimeEntry) Status {
	if len(entries) == 0 {
		return StatusDraft
	}

	allSubmitted := true
	anyApproved := false
	for _, e := range entries {
		switch e.Status.OrDraft() {
		case StatusRejected:
			return StatusRejected
		case StatusApproved:
			anyApproved = true
		case StatusSubmitted:
		default:
			allSubmitted = false
		}
	}

	switch {
	case anyApproved:
		return StatusApproved
	case allSubmitted:
		return StatusSubmitted
	default:
		return StatusDraft
	}
}

// TotalElapsedHours sums the lenient hours of entries.
func TotalElapsedHours(entries []TimeEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.ElapsedHours()
	}
	return total
}
