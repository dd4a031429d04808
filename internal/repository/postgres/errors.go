package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "timesheet-tracker/internal/errors"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// translatePgError maps pgx errors for one record onto AppErrors.
func translatePgError(err error, op, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(resource, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return apperrors.NewDuplicateError(resource, id)
		case foreignKeyViolationCode:
			return apperrors.NewValidationError("referenced employee or project does not exist", err)
		case checkViolationCode:
			return apperrors.NewValidationError(resource+" violates constraint "+pgErr.ConstraintName, err)
		}
	}

	return apperrors.NewDatabaseError(op, err).WithContext("id", id)
}
