package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

const (
	// recentTimesheetLimit caps the activity list on the project detail view.
	recentTimesheetLimit = 5
	// statsConcurrency bounds the per-entity repository fan-out of rollups.
	statsConcurrency = 8
)

type ProjectService struct {
	projects   ports.ProjectRepository
	users      ports.UserRepository
	timesheets ports.TimesheetRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	timesheets ports.TimesheetRepository,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		users:      users,
		timesheets: timesheets,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateProject stores a new ACTIVE project with no members and nothing billed.
func (s *ProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if input.TotalBudgetHours < 0 {
		return nil, domain.ErrNegativeBudget
	}

	project := &domain.Project{
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		StartDate:        input.StartDate.UTC(),
		EndDate:          input.EndDate.UTC(),
		Status:           domain.ProjectActive,
		AssignedUsers:    []string{},
		TotalBudgetHours: input.TotalBudgetHours,
		TotalBilledHours: 0,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.logger.Error().Err(err).Str("name", project.Name).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.logger.Info().Str("project_id", created.ID).Str("name", created.Name).Msg("project created")
	return created, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// AssignUsers adds the not-yet-assigned subset of userIDs to the project and
// records the project on each of those users. The call is rejected when every
// requested user is already a member.
func (s *ProjectService) AssignUsers(ctx context.Context, projectID string, userIDs []string) (*ports.AssignmentResult, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("assign users: %w", err)
	}

	requested := distinct(userIDs)
	if len(requested) == 0 {
		return nil, domain.Invalidf("at least one user must be assigned")
	}

	users, err := s.users.FindByIDs(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("assign users: %w", err)
	}
	if len(users) != len(requested) {
		return nil, domain.ErrUsersNotFound
	}

	newIDs := make([]string, 0, len(requested))
	for _, id := range requested {
		if !project.HasUser(id) {
			newIDs = append(newIDs, id)
		}
	}
	if len(newIDs) == 0 {
		return nil, domain.ErrAllUsersAssigned
	}

	if err := s.projects.AddAssignedUsers(ctx, project.ID, newIDs); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to add users to project")
		return nil, fmt.Errorf("assign users: %w", err)
	}
	if err := s.users.AddAssignedProject(ctx, newIDs, project.ID); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to add project to users")
		return nil, fmt.Errorf("assign users: %w", err)
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Strs("user_ids", newIDs).
		Int("skipped", len(requested)-len(newIDs)).
		Msg("users assigned to project")

	return &ports.AssignmentResult{ProjectID: project.ID, AssignedUserIDs: newIDs}, nil
}

// UpdateStatus moves an ACTIVE project to COMPLETED or CANCELLED.
func (s *ProjectService) UpdateStatus(ctx context.Context, projectID string, status domain.ProjectStatus) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("update project status: %w", err)
	}

	if !project.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition.WithDetail("from %s to %s", project.Status, status)
	}

	if err := s.projects.UpdateStatus(ctx, project.ID, project.Status, status); err != nil {
		return nil, fmt.Errorf("update project status: %w", err)
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("from", string(project.Status)).
		Str("to", string(status)).
		Msg("project status updated")

	project.Status = status
	return project, nil
}

// ProjectStats computes the rollup of every project. A user counts as an
// active resource when one of their timesheets starts within the last month.
func (s *ProjectService) ProjectStats(ctx context.Context) ([]ports.ProjectStats, error) {
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}

	cutoff := domain.DateOf(s.now()).AddDate(0, -1, 0)
	stats := make([]ports.ProjectStats, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, project := range projects {
		g.Go(func() error {
			timesheets, err := s.timesheets.FindByProject(gctx, project.ID)
			if err != nil {
				return fmt.Errorf("project %s: %w", project.ID, err)
			}
			stats[i] = projectStats(project, timesheets, cutoff)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}

	return stats, nil
}

func projectStats(project *domain.Project, timesheets []*domain.Timesheet, cutoff time.Time) ports.ProjectStats {
	active := make([]string, 0)
	for _, ts := range timesheets {
		if ts.WeekStartDate.After(cutoff) && !slices.Contains(active, ts.UserID) {
			active = append(active, ts.UserID)
		}
	}

	return ports.ProjectStats{
		ProjectID:           project.ID,
		ProjectName:         project.Name,
		ActiveResourceCount: len(active),
		TotalBilledHours:    project.TotalBilledHours,
		ProjectProgress:     project.Progress(),
		ActiveResources:     active,
	}
}

// ProjectDetails returns the project with its members (credentials stripped)
// and its most recently submitted timesheets.
func (s *ProjectService) ProjectDetails(ctx context.Context, projectID string) (*ports.ProjectDetail, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("project details: %w", err)
	}

	members := []ports.UserSummary{}
	if len(project.AssignedUsers) > 0 {
		users, err := s.users.FindByIDs(ctx, project.AssignedUsers)
		if err != nil {
			return nil, fmt.Errorf("project details: %w", err)
		}
		for _, u := range users {
			members = append(members, toUserSummary(u))
		}
	}

	timesheets, err := s.timesheets.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("project details: %w", err)
	}
	sort.SliceStable(timesheets, func(i, j int) bool {
		return timesheets[i].SubmittedAt.After(timesheets[j].SubmittedAt)
	})
	if len(timesheets) > recentTimesheetLimit {
		timesheets = timesheets[:recentTimesheetLimit]
	}

	return &ports.ProjectDetail{
		ProjectID:        project.ID,
		ProjectName:      project.Name,
		Description:      project.Description,
		Status:           project.Status,
		StartDate:        project.StartDate,
		EndDate:          project.EndDate,
		AssignedUsers:    members,
		TotalBudgetHours: project.TotalBudgetHours,
		TotalBilledHours: project.TotalBilledHours,
		RecentTimesheets: toSummaries(timesheets),
	}, nil
}

// distinct drops blanks and duplicates, keeping first-seen order.
func distinct(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
