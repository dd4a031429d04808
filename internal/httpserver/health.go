package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

type healthHandler struct {
	checks map[string]HealthCheck
}

func newHealthHandler(checks map[string]HealthCheck) *healthHandler {
	return &healthHandler{checks: checks}
}

type dependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string             `json:"status"`
	Dependencies []dependencyStatus `json:"dependencies"`
}

// Liveness answers GET /health.
func (h *healthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness answers GET /health/ready by running every dependency check.
func (h *healthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := readinessResponse{Status: "ok", Dependencies: make([]dependencyStatus, 0, len(names))}
	for _, name := range names {
		dep := dependencyStatus{Name: name, Status: "ok"}
		if err := h.checks[name](ctx); err != nil {
			dep.Status, dep.Error = "unhealthy", err.Error()
			resp.Status = "degraded"
		}
		resp.Dependencies = append(resp.Dependencies, dep)
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
