package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "timesheet-tracker/internal/errors"
)

// errorResponse is the error envelope of every API error.
type errorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Reasons []string `json:"reasons,omitempty"`
}

// NewHTTPErrorHandler maps application errors to status codes. Unexpected
// errors are logged and reported without detail.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		if status, known := statusFor(appErr.Type); known {
			return status, errorResponse{
				Error:   appErr.Message,
				Code:    appErr.Code,
				Reasons: apperrors.Reasons(appErr),
			}
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func statusFor(t apperrors.ErrorType) (int, bool) {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound, true
	case apperrors.ErrorTypeValidation:
		return http.StatusUnprocessableEntity, true
	case apperrors.ErrorTypeInvalidInput:
		return http.StatusBadRequest, true
	case apperrors.ErrorTypeInvalidTransition, apperrors.ErrorTypeConflict, apperrors.ErrorTypeNoEntries:
		return http.StatusConflict, true
	case apperrors.ErrorTypeInactive:
		return http.StatusForbidden, true
	case apperrors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout, true
	default:
		return 0, false
	}
}
