package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tempoworks/timesheet-system/internal/api/middleware"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC)

// newContext builds an echo context for a JSON request. A non-empty userID
// simulates a request that already passed the Auth middleware.
func newContext(method, target, body, userID string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if userID != "" {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyUsername, "user-"+userID)
		c.Set(middleware.ContextKeyRole, role)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

type stubTimesheetService struct {
	ports.TimesheetService

	submitFn func(ctx context.Context, in ports.SubmitTimesheetInput) (*domain.Timesheet, error)
	getFn    func(ctx context.Context, id string) (*domain.Timesheet, error)
	rejectFn func(ctx context.Context, id, reason string) (*domain.Timesheet, error)
	byUserFn func(ctx context.Context, userID string, start, end time.Time) ([]ports.TimesheetSummary, error)
	byProjFn func(ctx context.Context, projectID string, start, end time.Time) ([]ports.TimesheetSummary, error)
}

func (s *stubTimesheetService) Submit(ctx context.Context, in ports.SubmitTimesheetInput) (*domain.Timesheet, error) {
	return s.submitFn(ctx, in)
}

func (s *stubTimesheetService) GetByID(ctx context.Context, id string) (*domain.Timesheet, error) {
	return s.getFn(ctx, id)
}

func (s *stubTimesheetService) Reject(ctx context.Context, id, reason string) (*domain.Timesheet, error) {
	return s.rejectFn(ctx, id, reason)
}

func (s *stubTimesheetService) UserTimesheets(ctx context.Context, userID string, start, end time.Time) ([]ports.TimesheetSummary, error) {
	return s.byUserFn(ctx, userID, start, end)
}

func (s *stubTimesheetService) ProjectTimesheets(ctx context.Context, projectID string, start, end time.Time) ([]ports.TimesheetSummary, error) {
	return s.byProjFn(ctx, projectID, start, end)
}

type stubProjectService struct {
	ports.ProjectService

	createFn func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error)
	statusFn func(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error)
}

func (s *stubProjectService) CreateProject(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	return s.statusFn(ctx, id, status)
}

type stubUserService struct {
	ports.UserService

	statsFn func(ctx context.Context, start, end time.Time) ([]ports.UserWeeklyStats, error)
}

func (s *stubUserService) WeeklyStats(ctx context.Context, start, end time.Time) ([]ports.UserWeeklyStats, error) {
	return s.statsFn(ctx, start, end)
}
