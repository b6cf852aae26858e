package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// recentWindowDays scopes the "recent" list of the timesheet summary.
const recentWindowDays = 7

// SubmissionLocker abstracts the short-lived lock (Redis) that serialises
// concurrent submissions for the same user, project and week.
// Acquire returns a holder token that Release must present, so an expired
// holder cannot drop a lock taken over by someone else.
type SubmissionLocker interface {
	Acquire(ctx context.Context, key string) (token string, acquired bool, err error)
	Release(ctx context.Context, key, token string) error
}

type TimesheetService struct {
	timesheets ports.TimesheetRepository
	projects   ports.ProjectRepository
	users      ports.UserRepository
	locker     SubmissionLocker
	logger     zerolog.Logger
	now        func() time.Time
}

func NewTimesheetService(
	timesheets ports.TimesheetRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	locker SubmissionLocker,
	logger zerolog.Logger,
) *TimesheetService {
	return &TimesheetService{
		timesheets: timesheets,
		projects:   projects,
		users:      users,
		locker:     locker,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit records a weekly timesheet and bills its hours to the project.
// Hours are billed at submission time and are not reversed by a later rejection.
func (s *TimesheetService) Submit(ctx context.Context, in ports.SubmitTimesheetInput) (*domain.Timesheet, error) {
	if err := in.DailyHours.Validate(); err != nil {
		return nil, err
	}
	week := domain.DateOf(in.WeekStartDate)

	// 1. Project and user must exist.
	project, err := s.projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("submit timesheet: %w", err)
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit timesheet: %w", err)
	}

	// 2. Only members may log hours against the project.
	if !project.HasUser(user.ID) {
		return nil, domain.ErrUserNotAssigned
	}

	// 3. Serialise concurrent submissions for the same week. A lock store
	// outage degrades to the unique index on the collection.
	key := submissionKey(user.ID, project.ID, week)
	token, acquired, err := s.locker.Acquire(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("key", key).Msg("submission lock unavailable, continuing without it")
	case !acquired:
		return nil, domain.ErrSubmissionInProgress
	default:
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("failed to release submission lock")
			}
		}()
	}

	// 4. One timesheet per user, project and week.
	exists, err := s.timesheets.ExistsForWeek(ctx, user.ID, project.ID, week)
	if err != nil {
		return nil, fmt.Errorf("submit timesheet: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateTimesheet
	}

	ts := &domain.Timesheet{
		UserID:        user.ID,
		ProjectID:     project.ID,
		WeekStartDate: week,
		DailyHours:    in.DailyHours.Clone(),
		Description:   in.Description,
		Status:        domain.TimesheetSubmitted,
		SubmittedAt:   s.now().UTC(),
	}

	created, err := s.timesheets.Create(ctx, ts)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Str("project_id", project.ID).Msg("failed to create timesheet")
		return nil, fmt.Errorf("submit timesheet: %w", err)
	}

	// 5. Bill the project. A timesheet whose hours could not be billed is
	// removed so the week can be submitted again.
	hours := created.TotalHours()
	if err := s.projects.IncrementBilledHours(ctx, project.ID, hours); err != nil {
		s.logger.Error().Err(err).
			Str("timesheet_id", created.ID).
			Str("project_id", project.ID).
			Int("hours", hours).
			Msg("failed to bill timesheet hours")
		if delErr := s.timesheets.Delete(context.WithoutCancel(ctx), created.ID); delErr != nil {
			s.logger.Error().Err(delErr).
				Str("timesheet_id", created.ID).
				Msg("failed to remove unbilled timesheet")
		}
		return nil, fmt.Errorf("submit timesheet: bill hours: %w", err)
	}

	s.logger.Info().
		Str("timesheet_id", created.ID).
		Str("user_id", user.ID).
		Str("project_id", project.ID).
		Str("week", week.Format(domain.DateLayout)).
		Int("hours", hours).
		Msg("timesheet submitted")

	return created, nil
}

func (s *TimesheetService) GetByID(ctx context.Context, id string) (*domain.Timesheet, error) {
	ts, err := s.timesheets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get timesheet: %w", err)
	}
	return ts, nil
}

// Approve accepts a SUBMITTED timesheet.
func (s *TimesheetService) Approve(ctx context.Context, id string) (*domain.Timesheet, error) {
	return s.review(ctx, id, domain.TimesheetApproved, "")
}

// Reject declines a SUBMITTED timesheet and appends the reason to its description.
func (s *TimesheetService) Reject(ctx context.Context, id, reason string) (*domain.Timesheet, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.Invalidf("rejection reason is required")
	}
	return s.review(ctx, id, domain.TimesheetRejected, reason)
}

func (s *TimesheetService) review(ctx context.Context, id string, next domain.TimesheetStatus, reason string) (*domain.Timesheet, error) {
	ts, err := s.timesheets.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("review timesheet: %w", err)
	}

	if !ts.Status.CanTransitionTo(next) {
		return nil, domain.ErrTimesheetNotSubmitted.WithDetail("timesheet is %s", ts.Status)
	}

	description := ts.Description
	if next == domain.TimesheetRejected {
		description = domain.RejectionNote(ts.Description, reason)
	}

	if err := s.timesheets.UpdateReview(ctx, ts.ID, next, description); err != nil {
		return nil, fmt.Errorf("review timesheet: %w", err)
	}

	s.logger.Info().Str("timesheet_id", ts.ID).Str("status", string(next)).Msg("timesheet reviewed")

	ts.Status = next
	ts.Description = description
	return ts, nil
}

// UserTimesheets lists a user's timesheets whose week starts within [start, end].
func (s *TimesheetService) UserTimesheets(ctx context.Context, userID string, start, end time.Time) ([]ports.TimesheetSummary, error) {
	ts, err := s.timesheets.FindByUserAndWeekRange(ctx, userID, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("user timesheets: %w", err)
	}
	return toSummaries(ts), nil
}

// ProjectTimesheets lists a project's timesheets whose week starts within [start, end].
func (s *TimesheetService) ProjectTimesheets(ctx context.Context, projectID string, start, end time.Time) ([]ports.TimesheetSummary, error) {
	ts, err := s.timesheets.FindByProjectAndWeekRange(ctx, projectID, domain.DateOf(start), domain.DateOf(end))
	if err != nil {
		return nil, fmt.Errorf("project timesheets: %w", err)
	}
	return toSummaries(ts), nil
}

// Stats aggregates hours over the full timesheet history.
func (s *TimesheetService) Stats(ctx context.Context) (*ports.TimesheetStats, error) {
	all, err := s.timesheets.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("timesheet stats: %w", err)
	}

	stats := &ports.TimesheetStats{
		TotalTimesheets: len(all),
		HoursPerProject: make(map[string]int),
		HoursPerUser:    make(map[string]int),
	}
	for _, ts := range all {
		hours := ts.TotalHours()
		stats.TotalBilledHours += hours
		stats.HoursPerProject[ts.ProjectID] += hours
		stats.HoursPerUser[ts.UserID] += hours
	}

	since := domain.DateOf(s.now()).AddDate(0, 0, -recentWindowDays)
	recent, err := s.timesheets.FindByWeekStartAfter(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("timesheet stats: %w", err)
	}
	stats.RecentTimesheets = toSummaries(recent)

	return stats, nil
}

func submissionKey(userID, projectID string, week time.Time) string {
	return fmt.Sprintf("%s:%s:%s", userID, projectID, week.Format(domain.DateLayout))
}
