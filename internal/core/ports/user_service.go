package ports

import (
	"context"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// CreateUserInput carries an administrator-created account.
type CreateUserInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserWeeklyStats is one user's hours and utilization over a date range.
type UserWeeklyStats struct {
	UserID                string
	Username              string
	WeekStartDate         time.Time
	ProjectHours          map[string]int
	TotalHours            int
	UtilizationPercentage float64
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	WeeklyStats(ctx context.Context, start, end time.Time) ([]UserWeeklyStats, error)
}
