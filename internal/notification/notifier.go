// Package notification delivers best-effort messages about timesheet events.
// Callers log and drop delivery errors; nothing here may fail a submission.
package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Submission describes a submitted week.
type Submission struct {
	EmployeeID   string
	EmployeeName string
	Email        string
	WeekStart    time.Time
	EntryCount   int
	TotalHours   float64
}

// Notifier sends submission notifications.
type Notifier interface {
	NotifySubmitted(ctx context.Context, s Submission) error
}

// LogNotifier writes notifications to the logger.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifySubmitted(_ context.Context, s Submission) error {
	n.log.Info().
		Str("employee_id", s.EmployeeID).
		Str("email", s.Email).
		Str("week_start", s.WeekStart.Format("2006-01-02")).
		Int("entries", s.EntryCount).
		Float64("total_hours", s.TotalHours).
		Msg("timesheet submitted")
	return nil
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) NotifySubmitted(context.Context, Submission) error { return nil }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, s Submission) error

func (f NotifierFunc) NotifySubmitted(ctx context.Context, s Submission) error {
	return f(ctx, s)
}
