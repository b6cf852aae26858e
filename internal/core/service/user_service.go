package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

type UserService struct {
	users      ports.UserRepository
	projects   ports.ProjectRepository
	timesheets ports.TimesheetRepository
	hasher     ports.PasswordHasher
	logger     zerolog.Logger
	now        func() time.Time
}

func NewUserService(
	users ports.UserRepository,
	projects ports.ProjectRepository,
	timesheets ports.TimesheetRepository,
	hasher ports.PasswordHasher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		projects:   projects,
		timesheets: timesheets,
		hasher:     hasher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateUser registers a USER account on behalf of an administrator.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	accounts := accountCreator{users: s.users, hasher: s.hasher, now: s.now}
	if err := accounts.checkAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	user, err := accounts.create(ctx, input.Username, input.Email, input.Password, domain.RoleUser)
	if err != nil {
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the account and scrubs its ID from every project it was
// assigned to.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := s.projects.RemoveAssignedUser(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("user deleted but project memberships were not removed")
		return fmt.Errorf("delete user: remove memberships: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user deleted")
	return nil
}

// WeeklyStats computes every user's hours and utilization for [start, end].
// Utilization is measured against an 8-hour day over every calendar day in the range.
func (s *UserService) WeeklyStats(ctx context.Context, start, end time.Time) ([]ports.UserWeeklyStats, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}

	capacity := domain.DaysInRange(start, end) * domain.HoursPerWorkday
	stats := make([]ports.UserWeeklyStats, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, user := range users {
		g.Go(func() error {
			timesheets, err := s.timesheets.FindByUserAndWeekRange(gctx, user.ID, start, end)
			if err != nil {
				return fmt.Errorf("user %s: %w", user.ID, err)
			}
			stats[i] = userWeeklyStats(user, timesheets, start, capacity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}

	return stats, nil
}

func userWeeklyStats(user *domain.User, timesheets []*domain.Timesheet, start time.Time, capacity int) ports.UserWeeklyStats {
	projectHours := make(map[string]int)
	total := 0
	for _, ts := range timesheets {
		hours := ts.TotalHours()
		total += hours
		projectHours[ts.ProjectID] += hours
	}

	// An inverted range has no capacity; report zero rather than a negative ratio.
	utilization := 0.0
	if capacity > 0 {
		utilization = float64(total) / float64(capacity) * 100
	}

	return ports.UserWeeklyStats{
		UserID:                user.ID,
		Username:              user.Username,
		WeekStartDate:         start,
		ProjectHours:          projectHours,
		TotalHours:            total,
		UtilizationPercentage: utilization,
	}
}

// accountCreator holds the account rules shared by admin creation,
// self-registration and the bootstrap command.
type accountCreator struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
}

func (a accountCreator) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := a.users.ExistsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.ErrUserExists
	}

	taken, err = a.users.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ErrEmailExists
	}
	return nil
}

func (a accountCreator) create(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:         strings.TrimSpace(username),
		Email:            strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:     hash,
		Role:             role,
		AssignedProjects: []string{},
		CreatedAt:        a.now().UTC(),
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}
