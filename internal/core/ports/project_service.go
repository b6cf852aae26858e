package ports

import (
	"context"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// CreateProjectInput carries the fields an administrator may set on a new project.
type CreateProjectInput struct {
	Name             string
	Description      string
	StartDate        time.Time
	EndDate          time.Time
	TotalBudgetHours int
}

// AssignmentResult lists the users actually added by an assignment call.
type AssignmentResult struct {
	ProjectID       string
	AssignedUserIDs []string
}

// ProjectStats is the per-project rollup used by listings and the dashboard.
type ProjectStats struct {
	ProjectID           string
	ProjectName         string
	ActiveResourceCount int
	TotalBilledHours    int
	ProjectProgress     float64
	ActiveResources     []string
}

// UserSummary is a user projection without credentials.
type UserSummary struct {
	ID               string
	Username         string
	Email            string
	Role             domain.Role
	AssignedProjects []string
	CreatedAt        time.Time
}

// ProjectDetail is the full project view with members and recent activity.
type ProjectDetail struct {
	ProjectID        string
	ProjectName      string
	Description      string
	Status           domain.ProjectStatus
	StartDate        time.Time
	EndDate          time.Time
	AssignedUsers    []UserSummary
	TotalBudgetHours int
	TotalBilledHours int
	RecentTimesheets []TimesheetSummary
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	AssignUsers(ctx context.Context, projectID string, userIDs []string) (*AssignmentResult, error)
	UpdateStatus(ctx context.Context, projectID string, status domain.ProjectStatus) (*domain.Project, error)
	ProjectStats(ctx context.Context) ([]ProjectStats, error)
	ProjectDetails(ctx context.Context, projectID string) (*ProjectDetail, error)
}
