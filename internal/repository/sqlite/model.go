package sqlite

import "time"

// Employee is a row of the employees table
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Role         string
	HourlyRate   float64
	IsActive     bool
	ManagerID    *string // NULL when the employee has no manager
	StartDate    time.Time
	VacationDays int
	SickDays     int
}

// Project is a row of the projects table
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

// TimeEntry is a row of the time_entries table
type TimeEntry struct {
	ID            int64
	EmployeeID    string
	ProjectID     string
	StartTime     time.Time
	EndTime       time.Time
	Description   string
	BillableHours float64
	Status        string
	CreatedAt     time.Time
	LastModified  time.Time
}

// EntryFilter narrows time entry queries. Nil bounds are open.
type EntryFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Status     string
}
