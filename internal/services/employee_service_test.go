package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-tracker/internal/errors"
)

func newEmployeeRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		FirstName:    " Ada ",
		LastName:     "Lovelace",
		Email:        "ada@company.com",
		Department:   "Engineering",
		Role:         "Developer",
		HourlyRate:   90,
		StartDate:    time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		VacationDays: 20,
		SickDays:     5,
	}
}

func TestEmployeeService_CreateEmployee(t *testing.T) {
	f := setupServicesWithData(t)
	ctx := context.Background()

	created, err := f.svc.Employees.CreateEmployee(ctx, newEmployeeRequest())
	require.NoError(t, err)

	_, parseErr := uuid.Parse(created.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "Ada Lovelace", created.FullName)
	assert.True(t, created.Active)
	assert.Equal(t, "2023-03-01", created.StartDate)

	fetched, err := f.svc.Employees.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	req := newEmployeeRequest()
	req.ID = "EMP100"
	req.Email = "ada2@company.com"
	req.ManagerID = "MGR001"
	withManager, err := f.svc.Employees.CreateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "EMP100", withManager.ID)
	assert.Equal(t, "MGR001", withManager.ManagerID)
}

func TestEmployeeService_CreateEmployeeFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateEmployeeRequest)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "invalid fields",
			modify: func(r *CreateEmployeeRequest) { r.Email = "not-an-email"; r.HourlyRate = -1 },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrValidationFailed)
				assert.Equal(t, []string{"Email must be a valid email address", "Hourly rate cannot be negative"}, errors.Reasons(err))
			},
		},
		{
			name:   "unknown manager",
			modify: func(r *CreateEmployeeRequest) { r.ManagerID = "MGR404" },
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
			},
		},
		{
			name:   "taken id",
			modify: func(r *CreateEmployeeRequest) { r.ID = "EMP001" },
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
			},
		},
		{
			name:   "taken email",
			modify: func(r *CreateEmployeeRequest) { r.Email = "john.doe@company.com" },
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServicesWithData(t)
			req := newEmployeeRequest()
			tt.modify(&req)

			resp, err := f.svc.Employees.CreateEmployee(context.Background(), req)

			assert.Nil(t, resp)
			tt.check(t, err)

			all, listErr := f.svc.Employees.ListEmployees(context.Background())
			require.NoError(t, listErr)
			assert.Len(t, all, 5)
		})
	}
}

func TestEmployeeService_DeactivateEmployee(t *testing.T) {
	f := setupServicesWithData(t)
	ctx := context.Background()

	resp, err := f.svc.Employees.DeactivateEmployee(ctx, "EMP002")
	require.NoError(t, err)
	assert.False(t, resp.Active)

	all, err := f.svc.Employees.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "EMP002", all[1].ID)
	assert.False(t, all[1].Active)

	_, err = f.svc.Employees.DeactivateEmployee(ctx, "EMP404")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestProjectService(t *testing.T) {
	f := setupServicesWithData(t)
	ctx := context.Background()

	created, err := f.svc.Projects.CreateProject(ctx, CreateProjectRequest{
		Name:      "Mobile App",
		Client:    "Globex",
		Budget:    12000,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)
	assert.Empty(t, created.EndDate)

	fetched, err := f.svc.Projects.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	projects, err := f.svc.Projects.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 3)

	_, err = f.svc.Projects.CreateProject(ctx, CreateProjectRequest{
		Budget:    -1,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	assert.ErrorIs(t, err, errors.ErrValidationFailed)
	assert.Equal(t, []string{
		"Project name is required",
		"Budget cannot be negative",
		"End date must not be before start date",
	}, errors.Reasons(err))

	_, err = f.svc.Projects.GetProject(ctx, "PROJ404")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}
