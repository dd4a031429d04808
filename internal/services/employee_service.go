package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"timesheet-tracker/internal/domain"
)

// employeeServiceImpl implements the EmployeeService interface
type employeeServiceImpl struct {
	*core
}

// CreateEmployee validates and stores a new active employee
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	employee := domain.Employee{
		ID:           id,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Department:   strings.TrimSpace(req.Department),
		Role:         strings.TrimSpace(req.Role),
		HourlyRate:   req.HourlyRate,
		Active:       true,
		ManagerID:    strings.TrimSpace(req.ManagerID),
		StartDate:    req.StartDate,
		VacationDays: req.VacationDays,
		SickDays:     req.SickDays,
	}
	if err := s.employees.Validate(employee).Err("Validation failed"); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if employee.HasManager() {
			if _, err := s.store.Employees().FindByID(ctx, employee.ManagerID); err != nil {
				return err
			}
		}
		return s.store.Employees().Create(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", employee.ID).Msg("employee created")
	return NewEmployeeResponse(employee), nil
}

func (s *employeeServiceImpl) GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	employee, err := s.store.Employees().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewEmployeeResponse(employee), nil
}

func (s *employeeServiceImpl) ListEmployees(ctx context.Context) ([]*EmployeeResponse, error) {
	employees, err := s.store.Employees().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*EmployeeResponse, len(employees))
	for i, e := range employees {
		responses[i] = NewEmployeeResponse(e)
	}
	return responses, nil
}

// DeactivateEmployee clears the active flag. Employees are never deleted.
func (s *employeeServiceImpl) DeactivateEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	var employee domain.Employee
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.store.Employees().FindByID(ctx, id)
		if err != nil {
			return err
		}
		employee = current.Deactivate()
		return s.store.Employees().Update(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", id).Msg("employee deactivated")
	return NewEmployeeResponse(employee), nil
}
