package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"timesheet-tracker/internal/config"
	apperrors "timesheet-tracker/internal/errors"
)

// Result is the verdict of validating one item. Errors keeps the order in
// which checks ran.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Err returns a ValidationFailed error carrying every message, or nil when valid.
func (r Result) Err(message string) error {
	if r.IsValid {
		return nil
	}
	return apperrors.NewValidationFailedError(message, r.Errors)
}

// EntityValidator validates one kind of entity.
type EntityValidator[T any] interface {
	Validate(item T) Result
}

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{config: nil}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidDescriptionLength counts characters, not bytes
func (v *Validator) IsValidDescriptionLength(description string) bool {
	return utf8.RuneCountInString(description) <= v.MaxDescriptionLength()
}

// IsValidTimeRange checks if end time is strictly after start time
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return end.After(start)
}

// IsWithinMaxDuration checks a positive duration against the configured cap
func (v *Validator) IsWithinMaxDuration(d time.Duration) bool {
	return d <= v.MaxEntryDuration()
}

// IsValidHourlyRate checks the configured upper bound only
func (v *Validator) IsValidHourlyRate(rate float64) bool {
	return rate <= v.MaxHourlyRate()
}

// MaxEntryDuration returns configured maximum entry duration or default
func (v *Validator) MaxEntryDuration() time.Duration {
	if v.config != nil && v.config.Validation.MaxEntryDuration > 0 {
		return v.config.Validation.MaxEntryDuration
	}
	return 24 * time.Hour
}

// MaxDescriptionLength returns configured maximum description length or default
func (v *Validator) MaxDescriptionLength() int {
	if v.config != nil && v.config.Validation.MaxDescriptionLength > 0 {
		return v.config.Validation.MaxDescriptionLength
	}
	return 500
}

// MaxHourlyRate returns configured maximum hourly rate or default
func (v *Validator) MaxHourlyRate() float64 {
	if v.config != nil && v.config.Validation.MaxHourlyRate > 0 {
		return v.config.Validation.MaxHourlyRate
	}
	return 1000
}
