package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

const (
	dashboardTopN       = 5
	dashboardWindowDays = 7
)

// ProjectStatsSource provides per-project rollups.
type ProjectStatsSource interface {
	ProjectStats(ctx context.Context) ([]ports.ProjectStats, error)
}

// UserStatsSource provides per-user utilization over a date range.
type UserStatsSource interface {
	WeeklyStats(ctx context.Context, start, end time.Time) ([]ports.UserWeeklyStats, error)
}

type MetricsService struct {
	projects ProjectStatsSource
	users    UserStatsSource
	logger   zerolog.Logger
	now      func() time.Time
}

func NewMetricsService(projects ProjectStatsSource, users UserStatsSource, logger zerolog.Logger) *MetricsService {
	return &MetricsService{projects: projects, users: users, logger: logger, now: time.Now}
}

// Dashboard merges project stats with user utilization over the trailing week.
func (s *MetricsService) Dashboard(ctx context.Context) (*ports.DashboardMetrics, error) {
	end := domain.DateOf(s.now())
	start := end.AddDate(0, 0, -dashboardWindowDays)

	var (
		projectStats []ports.ProjectStats
		userStats    []ports.UserWeeklyStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projectStats, err = s.projects.ProjectStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		userStats, err = s.users.WeeklyStats(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}

	metrics := &ports.DashboardMetrics{
		TotalResources:     len(userStats),
		AverageUtilization: averageUtilization(userStats),
		TopProjects:        topProjects(projectStats, dashboardTopN),
		TopResources:       topResources(userStats, dashboardTopN),
	}
	for _, p := range projectStats {
		if p.ActiveResourceCount > 0 {
			metrics.ActiveProjects++
		}
		metrics.TotalBilledHours += p.TotalBilledHours
	}

	return metrics, nil
}

// Publish accepts an externally produced report. Report generation and
// delivery live outside this service, so the report is only logged.
func (s *MetricsService) Publish(_ context.Context, input ports.PublishMetricsInput) error {
	s.logger.Info().
		Str("report_date", input.ReportDate.Format(domain.DateLayout)).
		Int("projects", len(input.ProjectMetrics)).
		Int("resources", len(input.ResourceMetrics)).
		Msg("metrics report received")
	return nil
}

func averageUtilization(stats []ports.UserWeeklyStats) float64 {
	if len(stats) == 0 {
		return 0
	}
	sum := 0.0
	for _, u := range stats {
		sum += u.UtilizationPercentage
	}
	return sum / float64(len(stats))
}

func topProjects(stats []ports.ProjectStats, n int) []ports.ProjectStats {
	sorted := append([]ports.ProjectStats(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalBilledHours > sorted[j].TotalBilledHours
	})
	return sorted[:min(n, len(sorted))]
}

func topResources(stats []ports.UserWeeklyStats, n int) []ports.UserWeeklyStats {
	sorted := append([]ports.UserWeeklyStats(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UtilizationPercentage > sorted[j].UtilizationPercentage
	})
	return sorted[:min(n, len(sorted))]
}
