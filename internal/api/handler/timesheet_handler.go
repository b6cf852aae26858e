package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tempoworks/timesheet-system/internal/api/metrics"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// TimesheetHandler handles HTTP requests for timesheet operations.
type TimesheetHandler struct {
	service ports.TimesheetService
	now     func() time.Time
}

func NewTimesheetHandler(service ports.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{service: service, now: time.Now}
}

// Submit handles POST /api/timesheets. The timesheet is always filed for the
// authenticated caller.
//
// @Summary      Submit a weekly timesheet
// @Tags         timesheets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitTimesheetRequest  true  "Weekly hours"
// @Success      201   {object}  timesheetResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/timesheets [post]
func (h *TimesheetHandler) Submit(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req submitTimesheetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	week, err := domain.ParseDate(req.WeekStartDate)
	if err != nil {
		return domain.Invalidf("weekStartDate must be a date in YYYY-MM-DD format")
	}

	ts, err := h.service.Submit(c.Request().Context(), ports.SubmitTimesheetInput{
		UserID:        p.UserID,
		ProjectID:     req.ProjectID,
		WeekStartDate: week,
		DailyHours:    toDailyHours(req.DailyHours),
		Description:   req.Description,
	})
	if err != nil {
		metrics.TimesheetSubmissionErrorsTotal.WithLabelValues(submissionFailureReason(err)).Inc()
		return err
	}

	metrics.TimesheetsSubmittedTotal.Inc()
	metrics.BilledHoursTotal.Add(float64(ts.TotalHours()))
	return c.JSON(http.StatusCreated, toTimesheetResponse(ts))
}

func submissionFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateTimesheet):
		return "duplicate"
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return "in_progress"
	case errors.Is(err, domain.ErrUserNotAssigned):
		return "not_assigned"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		return "invalid"
	default:
		return "internal"
	}
}

// Get handles GET /api/timesheets/:id. Users may only read their own timesheets.
//
// @Summary      Get a timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  timesheetResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/timesheets/{id} [get]
func (h *TimesheetHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	ts, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if err := requireSelfOrAdmin(p, ts.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTimesheetResponse(ts))
}

// Approve handles PATCH /api/timesheets/:id/approve.
//
// @Summary      Approve a submitted timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Timesheet ID"
// @Success      200  {object}  timesheetResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/timesheets/{id}/approve [patch]
func (h *TimesheetHandler) Approve(c echo.Context) error {
	ts, err := h.service.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TimesheetReviewsTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusOK, toTimesheetResponse(ts))
}

// Reject handles PATCH /api/timesheets/:id/reject?rejectionReason=.
//
// @Summary      Reject a submitted timesheet
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string  true  "Timesheet ID"
// @Param        rejectionReason  query     string  true  "Reason shown to the user"
// @Success      200              {object}  timesheetResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/timesheets/{id}/reject [patch]
func (h *TimesheetHandler) Reject(c echo.Context) error {
	ts, err := h.service.Reject(c.Request().Context(), c.Param("id"), c.QueryParam("rejectionReason"))
	if err != nil {
		return err
	}

	metrics.TimesheetReviewsTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusOK, toTimesheetResponse(ts))
}

// UserTimesheets handles GET /api/timesheets/users/:userId. The range
// defaults to the last month.
//
// @Summary      List a user's timesheets
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        userId     path      string  true   "User ID"
// @Param        startDate  query     string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200        {array}   timesheetSummaryResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Router       /api/timesheets/users/{userId} [get]
func (h *TimesheetHandler) UserTimesheets(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	userID := c.Param("userId")
	if err := requireSelfOrAdmin(p, userID); err != nil {
		return err
	}

	today := domain.DateOf(h.now())
	start, end, err := dateRange(c, today.AddDate(0, -1, 0), today)
	if err != nil {
		return err
	}

	out, err := h.service.UserTimesheets(c.Request().Context(), userID, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponses(out))
}

// ProjectTimesheets handles GET /api/timesheets/projects/:projectId.
//
// @Summary      List a project's timesheets
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        startDate  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        endDate    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200        {array}   timesheetSummaryResponse
// @Failure      400        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /api/timesheets/projects/{projectId} [get]
func (h *TimesheetHandler) ProjectTimesheets(c echo.Context) error {
	var none time.Time
	start, end, err := dateRange(c, none, none)
	if err != nil {
		return err
	}

	out, err := h.service.ProjectTimesheets(c.Request().Context(), c.Param("projectId"), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponses(out))
}

// Stats handles GET /api/timesheets/stats/summary.
//
// @Summary      Aggregate hours across all timesheets
// @Tags         timesheets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  timesheetStatsResponse
// @Router       /api/timesheets/stats/summary [get]
func (h *TimesheetHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timesheetStatsResponse{
		TotalSubmittedTimesheets: stats.TotalTimesheets,
		TotalBilledHours:         stats.TotalBilledHours,
		HoursPerProject:          stats.HoursPerProject,
		HoursPerUser:             stats.HoursPerUser,
		RecentTimesheets:         toSummaryResponses(stats.RecentTimesheets),
	})
}
