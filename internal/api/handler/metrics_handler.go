package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tempoworks/timesheet-system/internal/api/metrics"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// MetricsHandler serves the administrator dashboard.
type MetricsHandler struct {
	service ports.MetricsService
}

func NewMetricsHandler(service ports.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Dashboard handles GET /api/metrics/dashboard.
//
// @Summary      Dashboard rollup
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /api/metrics/dashboard [get]
func (h *MetricsHandler) Dashboard(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.DashboardDuration)
	m, err := h.service.Dashboard(c.Request().Context())
	timer.ObserveDuration()
	if err != nil {
		return err
	}

	projects := make([]projectStatsResponse, 0, len(m.TopProjects))
	for _, p := range m.TopProjects {
		projects = append(projects, toProjectStatsResponse(p))
	}
	resources := make([]userWeeklyStatsResponse, 0, len(m.TopResources))
	for _, r := range m.TopResources {
		resources = append(resources, toUserWeeklyStatsResponse(r))
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		ActiveProjects:     m.ActiveProjects,
		TotalResources:     m.TotalResources,
		TotalBilledHours:   m.TotalBilledHours,
		AverageUtilization: m.AverageUtilization,
		TopProjects:        projects,
		TopResources:       resources,
	})
}

// Publish handles POST /api/metrics/publish.
//
// @Summary      Accept an externally produced metrics report
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishMetricsRequest  true  "Report"
// @Success      202   {object}  acceptedResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/metrics/publish [post]
func (h *MetricsHandler) Publish(c echo.Context) error {
	var req publishMetricsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reportDate, err := domain.ParseDate(req.ReportDate)
	if err != nil {
		return domain.Invalidf("reportDate must be a date in YYYY-MM-DD format")
	}

	in := ports.PublishMetricsInput{
		ReportDate: reportDate,
		Comments:   req.Comments,
	}
	for _, p := range req.ProjectMetrics {
		in.ProjectMetrics = append(in.ProjectMetrics, fromProjectStatsResponse(p))
	}
	for _, r := range req.ResourceMetrics {
		in.ResourceMetrics = append(in.ResourceMetrics, fromUserWeeklyStatsResponse(r))
	}

	if err := h.service.Publish(c.Request().Context(), in); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Status: "accepted"})
}
