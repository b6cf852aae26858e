package ports

import (
	"context"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// TimesheetRepository defines persistence operations for timesheets.
// Week ranges are inclusive on both ends.
type TimesheetRepository interface {
	// Create stores a new timesheet. A second timesheet for the same
	// (user, project, week) yields domain.ErrDuplicateTimesheet.
	Create(ctx context.Context, ts *domain.Timesheet) (*domain.Timesheet, error)
	FindByID(ctx context.Context, id string) (*domain.Timesheet, error)
	FindAll(ctx context.Context) ([]*domain.Timesheet, error)
	FindByProject(ctx context.Context, projectID string) ([]*domain.Timesheet, error)
	FindByUserAndWeekRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Timesheet, error)
	FindByProjectAndWeekRange(ctx context.Context, projectID string, start, end time.Time) ([]*domain.Timesheet, error)
	// FindByWeekStartAfter returns timesheets whose week starts strictly after the given date.
	FindByWeekStartAfter(ctx context.Context, after time.Time) ([]*domain.Timesheet, error)
	ExistsForWeek(ctx context.Context, userID, projectID string, weekStart time.Time) (bool, error)
	// UpdateReview records a review decision on a SUBMITTED timesheet. It fails
	// with domain.ErrTimesheetNotSubmitted when the timesheet was already reviewed.
	UpdateReview(ctx context.Context, id string, status domain.TimesheetStatus, description string) error
	// Delete removes a timesheet. It fails with domain.ErrTimesheetNotFound
	// when no timesheet has the given id.
	Delete(ctx context.Context, id string) error
}
