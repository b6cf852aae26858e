package ports

import (
	"context"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindAll(ctx context.Context) ([]*domain.Project, error)
	// UpdateStatus moves a project from one status to another. It fails with
	// domain.ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ProjectStatus) error
	// AddAssignedUsers adds user IDs to the project's assigned set atomically.
	AddAssignedUsers(ctx context.Context, projectID string, userIDs []string) error
	// RemoveAssignedUser drops userID from every project that lists it.
	RemoveAssignedUser(ctx context.Context, userID string) error
	// IncrementBilledHours atomically adds hours to the billed total.
	IncrementBilledHours(ctx context.Context, projectID string, hours int) error
}
