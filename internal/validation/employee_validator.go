package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/domain"
)

// employeeRules mirrors domain.Employee with the checks expressed as tags.
// Field order is the order messages are reported in.
type employeeRules struct {
	ID           string    `validate:"required"`
	FirstName    string    `validate:"required"`
	LastName     string    `validate:"required"`
	Email        string    `validate:"required,email"`
	Department   string    `validate:"required"`
	Role         string    `validate:"required"`
	HourlyRate   float64   `validate:"gte=0,max_hourly_rate"`
	StartDate    time.Time `validate:"required"`
	VacationDays int       `validate:"gte=0"`
	SickDays     int       `validate:"gte=0"`
}

// EmployeeValidator checks employee records.
type EmployeeValidator struct {
	validator *Validator
	rules     *validator.Validate
}

func NewEmployeeValidator() *EmployeeValidator {
	return newEmployeeValidator(NewValidator())
}

func NewEmployeeValidatorWithConfig(cfg *config.Config) *EmployeeValidator {
	return newEmployeeValidator(NewValidatorWithConfig(cfg))
}

func newEmployeeValidator(base *Validator) *EmployeeValidator {
	rules := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = rules.RegisterValidation("max_hourly_rate", func(fl validator.FieldLevel) bool {
		return base.IsValidHourlyRate(fl.Field().Float())
	})
	return &EmployeeValidator{validator: base, rules: rules}
}

// Validate checks an employee.
func (ev *EmployeeValidator) Validate(employee domain.Employee) Result {
	ve := NewValidationError()

	err := ev.rules.Struct(employeeRules{
		ID:           strings.TrimSpace(employee.ID),
		FirstName:    strings.TrimSpace(employee.FirstName),
		LastName:     strings.TrimSpace(employee.LastName),
		Email:        strings.TrimSpace(employee.Email),
		Department:   strings.TrimSpace(employee.Department),
		Role:         strings.TrimSpace(employee.Role),
		HourlyRate:   employee.HourlyRate,
		StartDate:    employee.StartDate,
		VacationDays: employee.VacationDays,
		SickDays:     employee.SickDays,
	})

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			ev.addFieldError(ve, fe)
		}
	} else if err != nil {
		ve.AddInvalidValue("employee", nil, err.Error())
	}

	return ve.Result()
}

func (ev *EmployeeValidator) addFieldError(ve *ValidationError, fe validator.FieldError) {
	switch fe.Field() {
	case "ID":
		ve.AddRequired("id", "Employee ID is required")
	case "FirstName":
		ve.AddRequired("first_name", "First name is required")
	case "LastName":
		ve.AddRequired("last_name", "Last name is required")
	case "Email":
		if fe.Tag() == "required" {
			ve.AddRequired("email", "Email is required")
		} else {
			ve.AddInvalidFormat("email", fe.Value(), "Email must be a valid email address")
		}
	case "Department":
		ve.AddRequired("department", "Department is required")
	case "Role":
		ve.AddRequired("role", "Role is required")
	case "HourlyRate":
		if fe.Tag() == "gte" {
			ve.AddInvalidValue("hourly_rate", fe.Value(), "Hourly rate cannot be negative")
		} else {
			ve.AddInvalidRange("hourly_rate", fe.Value(),
				fmt.Sprintf("Hourly rate seems unreasonably high (> $%g/hour)", ev.validator.MaxHourlyRate()))
		}
	case "StartDate":
		ve.AddRequired("start_date", "Start date is required")
	case "VacationDays":
		ve.AddInvalidValue("vacation_days", fe.Value(), "Vacation days cannot be negative")
	case "SickDays":
		ve.AddInvalidValue("sick_days", fe.Value(), "Sick days cannot be negative")
	default:
		ve.AddInvalidValue(strings.ToLower(fe.Field()), fe.Value(), fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag()))
	}
}

var _ EntityValidator[domain.Employee] = (*EmployeeValidator)(nil)
