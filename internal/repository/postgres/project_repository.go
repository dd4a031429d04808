package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"timesheet-tracker/internal/domain"
)

const projectColumns = `id, name, client, budget, start_date, end_date, status, total_hours`

// ProjectRepository stores projects in PostgreSQL.
type ProjectRepository struct {
	pool Queryer
}

// NewProjectRepository creates a ProjectRepository.
func NewProjectRepository(pool Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (domain.Project, error) {
	exec := QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)

	found, err := scanProject(row)
	if err != nil {
		return domain.Project{}, translatePgError(err, "find project", "project", id)
	}
	return found, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]domain.Project, error) {
	exec := QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, translatePgError(err, "list projects", "projects", "")
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, translatePgError(err, "scan project", "projects", "")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "list projects", "projects", "")
	}
	return projects, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) error {
	exec := QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO projects (`+projectColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `,
		p.ID, p.Name, p.Client, p.Budget, nullableTime(p.StartDate), p.EndDate, p.Status, p.TotalHours,
	)
	return translatePgError(err, "create project", "project", p.ID)
}

func (r *ProjectRepository) Update(ctx context.Context, p domain.Project) error {
	exec := QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE projects
           SET name = $1, client = $2, budget = $3, start_date = $4, end_date = $5,
               status = $6, total_hours = $7
         WHERE id = $8
    `,
		p.Name, p.Client, p.Budget, nullableTime(p.StartDate), p.EndDate, p.Status, p.TotalHours, p.ID,
	)
	if err != nil {
		return translatePgError(err, "update project", "project", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(pgx.ErrNoRows, "update project", "project", p.ID)
	}
	return nil
}

func scanProject(row pgx.Row) (domain.Project, error) {
	var (
		p         domain.Project
		client    sql.NullString
		startDate sql.NullTime
		endDate   sql.NullTime
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&client,
		&p.Budget,
		&startDate,
		&endDate,
		&p.Status,
		&p.TotalHours,
	); err != nil {
		return domain.Project{}, err
	}

	p.Client = client.String
	if startDate.Valid {
		p.StartDate = startDate.Time.UTC()
	}
	if endDate.Valid {
		end := endDate.Time.UTC()
		p.EndDate = &end
	}
	return p, nil
}
