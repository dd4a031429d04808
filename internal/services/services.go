package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/lifecycle"
	"timesheet-tracker/internal/locking"
	"timesheet-tracker/internal/metrics"
	"timesheet-tracker/internal/notification"
	"timesheet-tracker/internal/repository"
	"timesheet-tracker/internal/validation"
)

// ReportCache holds generated reports. Implementations may drop entries at
// any time; a miss is never an error.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidateWeek(ctx context.Context, employeeID string, weekStart time.Time) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any) error { return nil }
func (nopCache) InvalidateWeek(context.Context, string, time.Time) error { return nil }

// Dependencies are the collaborators shared by every service. Only Store is
// required.
type Dependencies struct {
	Store    repository.Store
	Config   *config.Config
	Logger   zerolog.Logger
	Locker   *locking.KeyedLocker
	Notifier notification.Notifier
	Cache    ReportCache
	Now      func() time.Time
}

// Services groups the application services built from one set of dependencies
type Services struct {
	TimeEntries TimeEntryService
	Lifecycle   LifecycleService
	Timesheets  TimesheetService
	Reports     ReportingService
	Employees   EmployeeService
	Projects    ProjectService
}

// New wires every service
func New(deps Dependencies) (*Services, error) {
	core, err := newCore(deps)
	if err != nil {
		return nil, err
	}
	return &Services{
		TimeEntries: &timeEntryServiceImpl{core},
		Lifecycle:   &lifecycleServiceImpl{core},
		Timesheets:  &timesheetServiceImpl{core},
		Reports:     &reportingServiceImpl{core},
		Employees:   &employeeServiceImpl{core},
		Projects:    &projectServiceImpl{core},
	}, nil
}

// core is embedded by every service implementation.
type core struct {
	store     repository.Store
	cfg       *config.Config
	log       zerolog.Logger
	locker    *locking.KeyedLocker
	notifier  notification.Notifier
	cache     ReportCache
	now       func() time.Time
	loc       *time.Location
	entries   *validation.TimeEntryValidator
	employees *validation.EmployeeValidator
	lifecycle *lifecycle.Lifecycle
}

func newCore(deps Dependencies) (*core, error) {
	c := &core{
		store:    deps.Store,
		cfg:      deps.Config,
		log:      deps.Logger,
		locker:   deps.Locker,
		notifier: deps.Notifier,
		cache:    deps.Cache,
		now:      deps.Now,
	}
	if c.cfg == nil {
		c.cfg = config.NewConfig()
	}
	if c.locker == nil {
		c.locker = locking.NewKeyedLocker(0)
	}
	if c.notifier == nil {
		c.notifier = notification.NopNotifier{}
	}
	if c.cache == nil {
		c.cache = nopCache{}
	}
	if c.now == nil {
		c.now = time.Now
	}

	loc, err := c.cfg.Location()
	if err != nil {
		return nil, err
	}
	c.loc = loc

	c.entries = validation.NewTimeEntryValidatorWithConfig(c.cfg)
	c.employees = validation.NewEmployeeValidatorWithConfig(c.cfg)
	c.lifecycle = lifecycle.New(c.entries, c.now)
	return c, nil
}

func (c *core) week(anchor time.Time) domain.TimeRange {
	return domain.WeekRange(anchor, c.loc)
}

// lockWeek runs fn inside a transaction while holding the (employee, week)
// lock. The transaction is bounded by the database write timeout.
func (c *core) lockWeek(ctx context.Context, employeeID string, weekStart time.Time, fn func(ctx context.Context) error) error {
	return c.lockWeeks(ctx, employeeID, []time.Time{weekStart}, fn)
}

// lockWeeks is lockWeek over several weeks of one employee.
func (c *core) lockWeeks(ctx context.Context, employeeID string, weekStarts []time.Time, fn func(ctx context.Context) error) error {
	keys := make([]string, len(weekStarts))
	for i, start := range weekStarts {
		keys[i] = locking.WeekKey(employeeID, start)
	}
	return c.locker.WithLocks(ctx, keys, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.GetWriteTimeout())
		defer cancel()
		return c.store.WithinTx(ctx, fn)
	})
}

// readOnly runs fn in a read-only transaction bounded by the database query
// timeout. An expired query timeout is reported as a Timeout error; a done
// caller ctx is reported as its own error.
func (c *core) readOnly(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	timeout := c.cfg.GetQueryTimeout()
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.store.WithinReadOnly(qctx, fn)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case qctx.Err() == context.DeadlineExceeded:
		timeoutErr := errors.NewTimeoutError(operation, timeout.String())
		timeoutErr.Cause = err
		return timeoutErr
	default:
		return err
	}
}

// invalidate drops cached reports after a committed mutation.
func (c *core) invalidate(ctx context.Context, employeeID string, weekStart time.Time) {
	if err := c.cache.InvalidateWeek(ctx, employeeID, weekStart); err != nil {
		c.log.Warn().Err(err).
			Str("employee_id", employeeID).
			Time("week_start", weekStart).
			Msg("report cache invalidation failed")
	}
}

// resultLabel is the metrics result label for err.
func resultLabel(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	return errors.GetErrorCode(err)
}
