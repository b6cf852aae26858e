package ports

import (
	"context"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create stores a new user and returns it with its generated ID.
	// Duplicate usernames or emails yield domain.ErrUserExists / domain.ErrEmailExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByIDs returns only the users that exist; callers compare counts.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// AddAssignedProject adds projectID to every listed user's assigned set.
	AddAssignedProject(ctx context.Context, userIDs []string, projectID string) error
	Delete(ctx context.Context, id string) error
}
