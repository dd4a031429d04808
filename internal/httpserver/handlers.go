package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/export"
	"timesheet-tracker/internal/services"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	api      api.API
	business api.BusinessAPI
}

func (h *handler) register(g *echo.Group) {
	g.POST("/employees", h.createEmployee)
	g.GET("/employees", h.listEmployees)
	g.GET("/employees/:id", h.getEmployee)
	g.POST("/employees/:id/deactivate", h.deactivateEmployee)

	g.POST("/projects", h.createProject)
	g.GET("/projects", h.listProjects)
	g.GET("/projects/:id", h.getProject)

	g.POST("/entries", h.createEntry)
	g.GET("/entries", h.listEntries)
	g.POST("/entries/validate", h.validateEntry)
	g.GET("/entries/:id", h.getEntry)
	g.PATCH("/entries/:id", h.updateEntry)
	g.DELETE("/entries/:id", h.deleteEntry)
	g.POST("/entries/:id/submit", h.submitEntry)
	g.POST("/entries/:id/approve", h.approveEntry)
	g.POST("/entries/:id/reject", h.rejectEntry)

	g.POST("/timesheets/submit", h.submitTimesheet)
	g.POST("/timesheets/approve", h.approveTimesheet)
	g.POST("/timesheets/reject", h.rejectTimesheet)

	g.GET("/reports/weekly", h.weeklyReport)
	g.GET("/reports/summary", h.summaryReport)
	g.GET("/reports/department", h.departmentReport)
	g.GET("/reports/payroll", h.payrollReport)

	g.GET("/hours", h.hours)
}

// --- Request types ---

type reasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type submitTimesheetRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	WeekEnding string `json:"weekEnding" validate:"required"`
}

type reviewTimesheetRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	WeekEnding string `json:"weekEnding" validate:"required"`
	ApproverID string `json:"approverId" validate:"required"`
	Reason     string `json:"reason"`
}

type entriesQuery struct {
	EmployeeID string `query:"employeeId" validate:"required"`
	WeekOf     string `query:"weekOf"`
}

type weekQuery struct {
	EmployeeID string `query:"employeeId" validate:"required"`
	WeekOf     string `query:"weekOf" validate:"required"`
	Format     string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

type departmentQuery struct {
	Department string `query:"department" validate:"required"`
	WeekOf     string `query:"weekOf" validate:"required"`
}

type payrollQuery struct {
	EmployeeID string `query:"employeeId" validate:"required"`
	Start      string `query:"start" validate:"required"`
	End        string `query:"end" validate:"required"`
	Format     string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

type hoursQuery struct {
	Start string `query:"start" validate:"required"`
	End   string `query:"end" validate:"required"`
}

// bind decodes and validates a request.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func entryID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("entry_id", raw, "must be a number")
	}
	return id, nil
}

func writeWorkbook(c echo.Context, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

// --- Employees ---

func (h *handler) createEmployee(c echo.Context) error {
	var in api.EmployeeInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	employee, err := h.api.CreateEmployee(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, employee)
}

func (h *handler) listEmployees(c echo.Context) error {
	employees, err := h.api.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *handler) getEmployee(c echo.Context) error {
	employee, err := h.api.GetEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

func (h *handler) deactivateEmployee(c echo.Context) error {
	employee, err := h.api.DeactivateEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

// --- Projects ---

func (h *handler) createProject(c echo.Context) error {
	var in api.ProjectInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	project, err := h.api.CreateProject(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *handler) listProjects(c echo.Context) error {
	projects, err := h.api.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *handler) getProject(c echo.Context) error {
	project, err := h.api.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// --- Entries ---

func (h *handler) createEntry(c echo.Context) error {
	var in api.TimeEntryInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	entry, err := h.api.CreateTimeEntry(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *handler) listEntries(c echo.Context) error {
	var q entriesQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	entries, err := h.api.ListTimeEntries(c.Request().Context(), q.EmployeeID, q.WeekOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *handler) validateEntry(c echo.Context) error {
	var in api.TimeEntryInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.api.ValidateTimeEntry(in))
}

func (h *handler) getEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	entry, err := h.api.GetTimeEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *handler) updateEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	var in api.TimeEntryUpdate
	if err := c.Bind(&in); err != nil {
		return err
	}
	entry, err := h.api.UpdateTimeEntry(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *handler) deleteEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	if err := h.api.DeleteTimeEntry(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) submitEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	entry, err := h.business.SubmitTimeEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *handler) approveEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	entry, err := h.business.ApproveTimeEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *handler) rejectEntry(c echo.Context) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}
	var req reasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry, err := h.business.RejectTimeEntry(c.Request().Context(), id, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// --- Timesheets ---

func (h *handler) submitTimesheet(c echo.Context) error {
	var req submitTimesheetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.business.SubmitTimesheet(c.Request().Context(), req.EmployeeID, req.WeekEnding)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) approveTimesheet(c echo.Context) error {
	var req reviewTimesheetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.business.ApproveTimesheet(c.Request().Context(), req.EmployeeID, req.WeekEnding, req.ApproverID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) rejectTimesheet(c echo.Context) error {
	var req reviewTimesheetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.business.RejectTimesheet(c.Request().Context(), req.EmployeeID, req.WeekEnding, req.ApproverID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// --- Reports ---

func (h *handler) weeklyReport(c echo.Context) error {
	var q weekQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	report, err := h.business.WeeklyReport(c.Request().Context(), q.EmployeeID, q.WeekOf)
	if err != nil {
		return err
	}
	if q.Format == "xlsx" {
		return writeWorkbook(c, fmt.Sprintf("weekly-%s-%s.xlsx", report.EmployeeID, report.Week), func(w io.Writer) error {
			return export.WriteWeeklyWorkbook(w, []*services.WeeklyReport{report})
		})
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handler) summaryReport(c echo.Context) error {
	var q weekQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	summary, err := h.business.TimesheetSummary(c.Request().Context(), q.EmployeeID, q.WeekOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *handler) departmentReport(c echo.Context) error {
	var q departmentQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	summaries, err := h.business.DepartmentReport(c.Request().Context(), q.Department, q.WeekOf)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *handler) payrollReport(c echo.Context) error {
	var q payrollQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	report, err := h.business.PayrollReport(c.Request().Context(), q.EmployeeID, q.Start, q.End)
	if err != nil {
		return err
	}
	if q.Format == "xlsx" {
		return writeWorkbook(c, fmt.Sprintf("payroll-%s.xlsx", report.EmployeeID), func(w io.Writer) error {
			return export.WritePayrollWorkbook(w, []*services.PayrollReport{report})
		})
	}
	return c.JSON(http.StatusOK, report)
}

func (h *handler) hours(c echo.Context) error {
	var q hoursQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	hours, err := h.business.CalculateHours(q.Start, q.End)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hours)
}
