package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
)

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	*core
}

// CreateProject stores a new project. The status defaults to active.
func (s *projectServiceImpl) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.ProjectStatusActive
	}

	project := domain.Project{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Client:    strings.TrimSpace(req.Client),
		Budget:    req.Budget,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
	}

	var reasons []string
	if project.Name == "" {
		reasons = append(reasons, "Project name is required")
	}
	if project.Budget < 0 {
		reasons = append(reasons, "Budget cannot be negative")
	}
	if project.EndDate != nil && project.EndDate.Before(project.StartDate) {
		reasons = append(reasons, "End date must not be before start date")
	}
	if len(reasons) > 0 {
		return nil, errors.NewValidationFailedError("Validation failed", reasons)
	}

	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}
	return NewProjectResponse(project), nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, id string) (*ProjectResponse, error) {
	project, err := s.store.Projects().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProjectResponse(project), nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*ProjectResponse, error) {
	projects, err := s.store.Projects().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = NewProjectResponse(p)
	}
	return responses, nil
}
