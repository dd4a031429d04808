package cli

import (
	"fmt"
	"strings"

	"timesheet-tracker/internal/errors"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages, listing validation reasons
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, eh.describe(err))
	}

	// Fallback for unknown errors
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", eh.describe(err))
	}
	return err
}

func (eh *ErrorHandler) describe(err error) string {
	message := errors.GetUserMessage(err)
	if reasons := errors.Reasons(err); len(reasons) > 0 {
		if !strings.Contains(message, reasons[0]) {
			message += ": " + strings.Join(reasons, "; ")
		}
	}
	return message
}
