package ports

import (
	"context"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// SubmitTimesheetInput is the DTO passed from the transport layer to
// TimesheetService. UserID must already be the authenticated principal.
type SubmitTimesheetInput struct {
	UserID        string
	ProjectID     string
	WeekStartDate time.Time
	DailyHours    domain.DailyHours
	Description   string
}

// TimesheetSummary is the lightweight view used in listings.
type TimesheetSummary struct {
	ID            string
	ProjectID     string
	WeekStartDate time.Time
	TotalHours    int
	Status        domain.TimesheetStatus
	SubmittedAt   time.Time
}

// TimesheetStats aggregates hours across every stored timesheet.
type TimesheetStats struct {
	TotalTimesheets  int
	TotalBilledHours int
	HoursPerProject  map[string]int
	HoursPerUser     map[string]int
	RecentTimesheets []TimesheetSummary
}

// TimesheetService defines use-case operations for timesheets.
type TimesheetService interface {
	Submit(ctx context.Context, input SubmitTimesheetInput) (*domain.Timesheet, error)
	GetByID(ctx context.Context, id string) (*domain.Timesheet, error)
	Approve(ctx context.Context, id string) (*domain.Timesheet, error)
	Reject(ctx context.Context, id, reason string) (*domain.Timesheet, error)
	UserTimesheets(ctx context.Context, userID string, start, end time.Time) ([]TimesheetSummary, error)
	ProjectTimesheets(ctx context.Context, projectID string, start, end time.Time) ([]TimesheetSummary, error)
	Stats(ctx context.Context) (*TimesheetStats, error)
}
