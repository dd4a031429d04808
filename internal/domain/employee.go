package domain

import (
	"strings"
	"time"
)

// Employee is a person who logs time. Employees are never hard-deleted;
// Active is cleared instead.
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Role         string
	HourlyRate   float64
	Active       bool
	ManagerID    string
	StartDate    time.Time
	VacationDays int
	SickDays     int
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// HasManager reports whether a manager reference is set.
func (e Employee) HasManager() bool {
	return e.ManagerID != ""
}

// Deactivate returns a copy with the active flag cleared.
func (e Employee) Deactivate() Employee {
	e.Active = false
	return e
}

// ProjectStatusActive is the status of a project accepting time.
const ProjectStatusActive = "active"

// Project is a billable unit of work. TotalHours is informational only;
// reports recompute hours from entries.
type Project struct {
	ID         string
	Name       string
	Client     string
	Budget     float64
	StartDate  time.Time
	EndDate    *time.Time
	Status     string
	TotalHours float64
}

// IsActive reports whether the project is open for time entries.
func (p Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}
