package ports

import (
	"context"
	"time"
)

// DashboardMetrics is the administrator dashboard rollup.
type DashboardMetrics struct {
	ActiveProjects     int
	TotalResources     int
	TotalBilledHours   int
	AverageUtilization float64
	TopProjects        []ProjectStats
	TopResources       []UserWeeklyStats
}

// PublishMetricsInput is an externally produced metrics report.
type PublishMetricsInput struct {
	ReportDate      time.Time
	ProjectMetrics  []ProjectStats
	ResourceMetrics []UserWeeklyStats
	Comments        string
}

// MetricsService composes project and user rollups.
type MetricsService interface {
	Dashboard(ctx context.Context) (*DashboardMetrics, error)
	Publish(ctx context.Context, input PublishMetricsInput) error
}
