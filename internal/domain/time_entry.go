package domain

import (
	"time"
)

// Status is the lifecycle status of a time entry.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusSubmitted, StatusApproved, StatusRejected}

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// OrDraft returns StatusDraft for an unset status.
func (s Status) OrDraft() Status {
	if s == "" {
		return StatusDraft
	}
	return s
}

func (s Status) String() string {
	return string(s)
}

// TimeEntry represents a block of work an employee logged against a project.
// This is a pure domain model without database-specific concerns.
type TimeEntry struct {
	ID            int64
	EmployeeID    string
	ProjectID     string
	StartTime     time.Time
	EndTime       time.Time
	Description   string
	BillableHours float64
	Status        Status
	CreatedAt     time.Time
	LastModified  time.Time
}

// NewTimeEntry creates a draft entry that has not been persisted yet.
func NewTimeEntry(employeeID, projectID string, start, end time.Time, now time.Time) TimeEntry {
	return TimeEntry{
		EmployeeID:   employeeID,
		ProjectID:    projectID,
		StartTime:    start,
		EndTime:      end,
		Status:       StatusDraft,
		CreatedAt:    now,
		LastModified: now,
	}
}

// IsNew returns true until the repository has assigned an ID.
func (te TimeEntry) IsNew() bool {
	return te.ID == 0
}

// Duration returns the wall-clock time between start and end.
func (te TimeEntry) Duration() time.Duration {
	return te.EndTime.Sub(te.StartTime)
}

// ElapsedHours is the lenient hours value used for display and aggregation.
func (te TimeEntry) ElapsedHours() float64 {
	return LenientHours(te.StartTime, te.EndTime)
}

// Touch sets the last-modified timestamp.
func (te TimeEntry) Touch(now time.Time) TimeEntry {
	te.LastModified = now
	return te
}

