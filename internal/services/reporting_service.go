package services

import (
	"context"
	"time"

	"timesheet-tracker/internal/cache"
	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/metrics"
)

// Report names used for metrics labels.
const (
	reportWeekly     = "weekly"
	reportSummary    = "summary"
	reportDepartment = "department"
	reportPayroll    = "payroll"
)

// reportingServiceImpl implements the ReportingService interface. Reports
// never write; a cancelled ctx aborts them between entries.
type reportingServiceImpl struct {
	*core
}

// WeeklyReport breaks the week's hours down by project
func (r *reportingServiceImpl) WeeklyReport(ctx context.Context, employeeID string, weekOf time.Time) (*WeeklyReport, error) {
	defer r.observe(reportWeekly, time.Now())

	week := r.week(weekOf)
	key := cache.Key(cache.KindWeekly, employeeID, week.Start)
	var cached WeeklyReport
	if r.cachedReport(ctx, key, &cached) {
		return &cached, nil
	}

	employee, entries, err := r.employeeWeek(ctx, employeeID, week)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		Week:         week.WeekLabel(),
		Projects:     make(map[string]float64),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hours := entry.ElapsedHours()
		report.TotalHours += hours
		if entry.BillableHours > 0 {
			report.BillableHours += entry.BillableHours
		}
		report.Projects[entry.ProjectID] += hours
	}
	if overtime := report.TotalHours - r.cfg.Payroll.OvertimeThresholdHours; overtime > 0 {
		report.Overtime = overtime
	}
	report.GrossPay = report.BillableHours * employee.HourlyRate

	r.storeReport(ctx, key, report)
	return report, nil
}

// TimesheetSummary totals the week and derives its unified status
func (r *reportingServiceImpl) TimesheetSummary(ctx context.Context, employeeID string, weekOf time.Time) (*TimesheetSummary, error) {
	defer r.observe(reportSummary, time.Now())
	return r.summary(ctx, employeeID, r.week(weekOf))
}

// DepartmentReport summarises every employee of a department, active or
// not, in repository order
func (r *reportingServiceImpl) DepartmentReport(ctx context.Context, department string, weekOf time.Time) ([]*TimesheetSummary, error) {
	defer r.observe(reportDepartment, time.Now())

	employees, err := r.store.Employees().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	week := r.week(weekOf)
	summaries := make([]*TimesheetSummary, 0)
	for _, employee := range employees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if employee.Department != department {
			continue
		}
		summary, err := r.summary(ctx, employee.ID, week)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// PayrollReport approximates pay for approved entries that lie entirely
// within [start, end]
func (r *reportingServiceImpl) PayrollReport(ctx context.Context, employeeID string, start, end time.Time) (*PayrollReport, error) {
	defer r.observe(reportPayroll, time.Now())

	var (
		employee domain.Employee
		entries  []domain.TimeEntry
		billable float64
	)
	err := r.readOnly(ctx, "payroll report", func(ctx context.Context) error {
		var err error
		if employee, err = r.store.Employees().FindByID(ctx, employeeID); err != nil {
			return err
		}
		if entries, err = r.store.TimeEntries().FindByEmployee(ctx, employeeID, nil); err != nil {
			return err
		}
		billable, err = r.store.TimeEntries().SumBillableHours(ctx, employeeID, domain.StatusApproved, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}

	totalHours := 0.0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.Status != domain.StatusApproved {
			continue
		}
		if entry.StartTime.Before(start) || entry.EndTime.After(end) {
			continue
		}
		totalHours += entry.ElapsedHours()
	}

	taxRate := r.cfg.Payroll.TaxRate
	grossPay := totalHours * employee.HourlyRate
	return &PayrollReport{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		Period: PayrollPeriod{
			Start: domain.FormatTimestamp(start),
			End:   domain.FormatTimestamp(end),
		},
		TotalHours:    totalHours,
		BillableHours: billable,
		HourlyRate:    employee.HourlyRate,
		GrossPay:      grossPay,
		TaxAmount:     grossPay * taxRate,
		NetPay:        grossPay * (1 - taxRate),
	}, nil
}

func (r *reportingServiceImpl) summary(ctx context.Context, employeeID string, week domain.TimeRange) (*TimesheetSummary, error) {
	key := cache.Key(cache.KindSummary, employeeID, week.Start)
	var cached TimesheetSummary
	if r.cachedReport(ctx, key, &cached) {
		return &cached, nil
	}

	employee, entries, err := r.employeeWeek(ctx, employeeID, week)
	if err != nil {
		return nil, err
	}

	summary := &TimesheetSummary{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		WeekStart:    week.WeekLabel(),
		EntryCount:   len(entries),
		Status:       domain.UnifiedStatus(entries),
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.TotalHours += entry.ElapsedHours()
		summary.TotalBillableHours += entry.BillableHours
	}

	r.storeReport(ctx, key, summary)
	return summary, nil
}

func (r *reportingServiceImpl) employeeWeek(ctx context.Context, employeeID string, week domain.TimeRange) (domain.Employee, []domain.TimeEntry, error) {
	var (
		employee domain.Employee
		entries  []domain.TimeEntry
	)
	err := r.readOnly(ctx, "read week", func(ctx context.Context) error {
		var err error
		if employee, err = r.store.Employees().FindByID(ctx, employeeID); err != nil {
			return err
		}
		entries, err = r.store.TimeEntries().FindByEmployee(ctx, employeeID, &week)
		return err
	})
	if err != nil {
		return domain.Employee{}, nil, err
	}
	return employee, entries, nil
}

// cachedReport reports whether dest was filled from the cache. Cache
// failures count as misses.
func (r *reportingServiceImpl) cachedReport(ctx context.Context, key string, dest any) bool {
	hit, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		return false
	}
	return hit
}

func (r *reportingServiceImpl) storeReport(ctx context.Context, key string, report any) {
	if err := r.cache.Set(ctx, key, report); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
}

func (r *reportingServiceImpl) observe(report string, started time.Time) {
	metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(started).Seconds())
}
