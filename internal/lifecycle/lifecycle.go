// Package lifecycle implements the time entry status machine:
//
//	draft ──submit──▶ submitted ──approve──▶ approved
//	                      │  ▲                  │
//	                 reject  └──────submit──────┘
//	                      ▼  │
//	                   rejected
//
// Transitions operate on copies; callers persist the returned entry.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"timesheet-tracker/internal/domain"
	apperrors "timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/validation"
)

// Events accepted by the machine.
const (
	EventSubmit  = "submit"
	EventApprove = "approve"
	EventReject  = "reject"
)

// Machine state names. Kept untyped so they convert to statekit's ID types.
const (
	stateDraft     = "draft"
	stateSubmitted = "submitted"
	stateApproved  = "approved"
	stateRejected  = "rejected"
)

// entryContext carries the entry being transitioned.
type entryContext struct {
	EntryID int64
}

// Lifecycle applies status transitions to time entries.
type Lifecycle struct {
	validator validation.EntityValidator[domain.TimeEntry]
	now       func() time.Time
}

// New returns a Lifecycle. A nil now uses time.Now.
func New(validator validation.EntityValidator[domain.TimeEntry], now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{validator: validator, now: now}
}

// Submit moves an entry to submitted. It fails with AlreadySubmitted when
// the entry is already submitted and with InvalidEntry when the validator
// rejects it.
func (l *Lifecycle) Submit(entry domain.TimeEntry) (domain.TimeEntry, error) {
	from := entry.Status.OrDraft()
	if from == domain.StatusSubmitted {
		return entry, apperrors.NewAlreadySubmittedError(
			fmt.Sprintf("time entry %d has already been submitted", entry.ID))
	}

	if result := l.validator.Validate(entry); !result.IsValid {
		return entry, apperrors.NewInvalidEntryError(entry.ID, result.Errors)
	}

	return l.apply(entry, from, EventSubmit)
}

// Approve moves a submitted entry to approved.
func (l *Lifecycle) Approve(entry domain.TimeEntry) (domain.TimeEntry, error) {
	return l.apply(entry, entry.Status.OrDraft(), EventApprove)
}

// Reject moves a submitted entry to rejected and records the reason in
// the description.
func (l *Lifecycle) Reject(entry domain.TimeEntry, reason string) (domain.TimeEntry, error) {
	rejected, err := l.apply(entry, entry.Status.OrDraft(), EventReject)
	if err != nil {
		return entry, err
	}
	rejected.Description = RejectionNote(rejected.Description, reason)
	return rejected, nil
}

// RejectionNote appends the rejection annotation to a description.
func RejectionNote(description, reason string) string {
	return fmt.Sprintf("%s\n[REJECTED: %s]", description, reason)
}

// CanTransition reports whether event is allowed from status.
func CanTransition(from domain.Status, event string) bool {
	_, err := Next(from, event)
	return err == nil
}

// Next returns the status reached by sending event from status.
func Next(from domain.Status, event string) (domain.Status, error) {
	return next(from, event, entryContext{})
}

func next(from domain.Status, event string, ctx entryContext) (domain.Status, error) {
	from = from.OrDraft()
	if !from.IsValid() {
		return from, apperrors.NewInvalidTransitionError(string(from), event)
	}

	interpreter, err := newInterpreter(from, ctx)
	if err != nil {
		return from, err
	}
	interpreter.Send(statekit.Event{Type: statekit.EventType(event)})

	to := domain.Status(interpreter.State().Value)
	if to == from {
		return from, apperrors.NewInvalidTransitionError(string(from), event)
	}
	return to, nil
}

func (l *Lifecycle) apply(entry domain.TimeEntry, from domain.Status, event string) (domain.TimeEntry, error) {
	to, err := next(from, event, entryContext{EntryID: entry.ID})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			appErr.WithContext("entry_id", entry.ID)
		}
		return entry, err
	}

	entry.Status = to
	return entry.Touch(l.now()), nil
}

func newInterpreter(initial domain.Status, ctx entryContext) (*statekit.Interpreter[entryContext], error) {
	builder := statekit.NewMachine[entryContext]("time-entry").
		WithInitial(statekit.StateID(initial)).
		WithContext(ctx)

	builder.State(stateDraft).
		On(EventSubmit).Target(stateSubmitted).
		Done()

	builder.State(stateSubmitted).
		On(EventApprove).Target(stateApproved).
		On(EventReject).Target(stateRejected).
		Done()

	builder.State(stateRejected).
		On(EventSubmit).Target(stateSubmitted).
		Done()

	builder.State(stateApproved).
		On(EventSubmit).Target(stateSubmitted).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build time entry state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return interpreter, nil
}
