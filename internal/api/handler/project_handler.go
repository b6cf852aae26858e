package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tempoworks/timesheet-system/internal/api/metrics"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /api/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project definition"
// @Success      201   {object}  projectResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	project, err := h.service.CreateProject(c.Request().Context(), ports.CreateProjectInput{
		Name:             req.Name,
		Description:      req.Description,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TotalBudgetHours: req.TotalBudgetHours,
	})
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// List handles GET /api/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  projectResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Stats handles GET /api/projects/stats.
//
// @Summary      Per-project rollup
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  projectStatsResponse
// @Router       /api/projects/stats [get]
func (h *ProjectHandler) Stats(c echo.Context) error {
	stats, err := h.service.ProjectStats(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]projectStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, toProjectStatsResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/projects/:id.
//
// @Summary      Project details with members and recent timesheets
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	detail, err := h.service.ProjectDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectDetailResponse(detail))
}

// AssignUsers handles POST /api/projects/:id/users.
//
// @Summary      Assign users to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Project ID"
// @Param        body  body      assignUsersRequest  true  "Users to assign"
// @Success      200   {object}  assignUsersResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/projects/{id}/users [post]
func (h *ProjectHandler) AssignUsers(c echo.Context) error {
	var req assignUsersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.AssignUsers(c.Request().Context(), c.Param("id"), req.UserIDs)
	if err != nil {
		return err
	}

	metrics.ProjectAssignmentsTotal.Add(float64(len(res.AssignedUserIDs)))
	return c.JSON(http.StatusOK, assignUsersResponse{
		ProjectID:       res.ProjectID,
		AssignedUserIDs: res.AssignedUserIDs,
	})
}

// UpdateStatus handles PATCH /api/projects/:id/status?status=.
//
// @Summary      Complete or cancel a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Project ID"
// @Param        status  query     string  true  "Target status"  Enums(COMPLETED, CANCELLED)
// @Success      200     {object}  projectResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/projects/{id}/status [patch]
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	status := domain.ProjectStatus(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
	if !status.Valid() {
		return domain.Invalidf("status must be one of ACTIVE, COMPLETED, CANCELLED")
	}

	project, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return err
	}

	metrics.ProjectStatusChangesTotal.WithLabelValues(string(project.Status)).Inc()
	return c.JSON(http.StatusOK, toProjectResponse(project))
}
