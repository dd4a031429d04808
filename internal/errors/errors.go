package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes shared by the timesheet workflow.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeInvalidEntry      = "INVALID_ENTRY"
	CodeNotFound          = "NOT_FOUND"
	CodeDatabase          = "DATABASE_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNegativeDuration  = "NEGATIVE_DURATION"
	CodeTimeout           = "TIMEOUT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadySubmitted  = "ALREADY_SUBMITTED"
	CodeNotAllSubmitted   = "NOT_ALL_SUBMITTED"
	CodeInactiveEmployee  = "INACTIVE_EMPLOYEE"
	CodeNoEntries         = "NO_ENTRIES"
	CodeDuplicate         = "DUPLICATE"
)

const reasonsKey = "reasons"

// Sentinels for errors.Is checks. Only Type and Code are compared.
var (
	ErrAlreadySubmitted  = &AppError{Type: ErrorTypeConflict, Code: CodeAlreadySubmitted}
	ErrNotAllSubmitted   = &AppError{Type: ErrorTypeConflict, Code: CodeNotAllSubmitted}
	ErrInactiveEmployee  = &AppError{Type: ErrorTypeInactive, Code: CodeInactiveEmployee}
	ErrNoEntries         = &AppError{Type: ErrorTypeNoEntries, Code: CodeNoEntries}
	ErrInvalidTransition = &AppError{Type: ErrorTypeInvalidTransition, Code: CodeInvalidTransition}
	ErrNegativeDuration  = &AppError{Type: ErrorTypeInvalidInput, Code: CodeNegativeDuration}
	ErrInvalidEntry      = &AppError{Type: ErrorTypeValidation, Code: CodeInvalidEntry}
	ErrValidationFailed  = &AppError{Type: ErrorTypeValidation, Code: CodeValidationFailed}
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    CodeValidationFailed,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewValidationFailedError creates a validation error that carries every
// individual reason so callers can display them one by one.
func NewValidationFailedError(message string, reasons []string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("%s: %s", message, strings.Join(reasons, "; ")),
		Code:    CodeValidationFailed,
		Context: map[string]interface{}{
			reasonsKey: append([]string(nil), reasons...),
		},
	}
}

// NewInvalidEntryError is returned when a single entry fails validation on submit
func NewInvalidEntryError(entryID int64, reasons []string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("cannot submit invalid time entry %d: %s", entryID, strings.Join(reasons, ", ")),
		Code:    CodeInvalidEntry,
		Context: map[string]interface{}{
			"entry_id": entryID,
			reasonsKey: append([]string(nil), reasons...),
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    CodeNotFound,
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    CodeDatabase,
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    CodeInvalidInput,
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewNegativeDurationError reports an end time that is not after the start time
func NewNegativeDurationError(start, end interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: "end time must be after start time",
		Code:    CodeNegativeDuration,
		Context: map[string]interface{}{
			"start": start,
			"end":   end,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    CodeTimeout,
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewInvalidTransitionError reports a lifecycle event that the current status does not allow
func NewInvalidTransitionError(from string, event string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a time entry in status %q", event, from),
		Code:    CodeInvalidTransition,
		Context: map[string]interface{}{
			"from":  from,
			"event": event,
		},
	}
}

// NewAlreadySubmittedError creates an already submitted error
func NewAlreadySubmittedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Code:    CodeAlreadySubmitted,
		Context: make(map[string]interface{}),
	}
}

// NewNotAllSubmittedError creates an error for approving a week with unsubmitted entries
func NewNotAllSubmittedError(pending int) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("cannot approve timesheet with %d unsubmitted entries", pending),
		Code:    CodeNotAllSubmitted,
		Context: map[string]interface{}{
			"pending": pending,
		},
	}
}

// NewDuplicateError creates an error for a record whose identifier is taken
func NewDuplicateError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, identifier),
		Code:    CodeDuplicate,
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewInactiveEmployeeError creates an inactive employee error
func NewInactiveEmployeeError(employeeID string) *AppError {
	return &AppError{
		Type:    ErrorTypeInactive,
		Message: fmt.Sprintf("inactive employees cannot submit timesheets: %s", employeeID),
		Code:    CodeInactiveEmployee,
		Context: map[string]interface{}{
			"employee_id": employeeID,
		},
	}
}

// NewNoEntriesError creates an error for an empty week
func NewNoEntriesError(employeeID string, weekStart interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeNoEntries,
		Message: "no time entries found for the specified week",
		Code:    CodeNoEntries,
		Context: map[string]interface{}{
			"employee_id": employeeID,
			"week_start":  weekStart,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// Reasons returns the individual validation messages carried by err, if any
func Reasons(err error) []string {
	appErr, ok := AsAppError(err)
	if !ok {
		return nil
	}
	value, ok := appErr.GetContext(reasonsKey)
	if !ok {
		return nil
	}
	reasons, _ := value.([]string)
	return reasons
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
			ErrorTypeInvalidTransition, ErrorTypeConflict, ErrorTypeInactive, ErrorTypeNoEntries:
			return appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeDatabase, ErrorTypeTimeout:
			return true
		default:
			return false
		}
	}
	return true
}
