package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	apperrors "timesheet-tracker/internal/errors"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		message  string
		reasons  []string
		logsLine bool
	}{
		{
			name:    "validation failure carries reasons",
			err:     apperrors.NewValidationFailedError("Validation failed", []string{"Start time is required"}),
			status:  http.StatusUnprocessableEntity,
			message: "Validation failed",
			reasons: []string{"Start time is required"},
		},
		{
			name:    "conflict",
			err:     apperrors.NewAlreadySubmittedError("All entries have already been submitted"),
			status:  http.StatusConflict,
			message: "All entries have already been submitted",
		},
		{
			name:    "invalid transition",
			err:     apperrors.NewInvalidTransitionError("draft", "approve"),
			status:  http.StatusConflict,
			message: apperrors.NewInvalidTransitionError("draft", "approve").Message,
		},
		{
			name:    "query timeout",
			err:     apperrors.NewTimeoutError("payroll report", "5s"),
			status:  http.StatusGatewayTimeout,
			message: "operation timed out: payroll report",
		},
		{
			name:    "echo error",
			err:     echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"),
			status:  http.StatusMethodNotAllowed,
			message: "method not allowed",
		},
		{
			name:     "database error hides detail",
			err:      apperrors.NewDatabaseError("save entry", fmt.Errorf("disk full")),
			status:   http.StatusInternalServerError,
			message:  "internal server error",
			logsLine: true,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			status:   http.StatusInternalServerError,
			message:  "internal server error",
			logsLine: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/1", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.New(&logs))(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, tt.reasons, body.Reasons)
			if tt.logsLine {
				assert.Contains(t, logs.String(), "unhandled error")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&hoursQuery{Start: "a", End: "b"}))

	err := v.Validate(&weekQuery{Format: "csv"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	assert.Contains(t, err.Error(), "employeeId is required; weekOf is required; format must be one of: json xlsx")
}
