package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

func TestTimesheetHandler_Submit_UsesAuthenticatedUser(t *testing.T) {
	var got ports.SubmitTimesheetInput
	stub := &stubTimesheetService{
		submitFn: func(_ context.Context, in ports.SubmitTimesheetInput) (*domain.Timesheet, error) {
			got = in
			return &domain.Timesheet{
				ID:            "ts-1",
				UserID:        in.UserID,
				ProjectID:     in.ProjectID,
				WeekStartDate: in.WeekStartDate,
				DailyHours:    in.DailyHours,
				Status:        domain.TimesheetSubmitted,
				SubmittedAt:   fixedNow,
			}, nil
		},
	}
	h := NewTimesheetHandler(stub)

	body := `{"userId":"someone-else","projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{"MONDAY":8,"TUESDAY":6}}`
	c, rec := newContext(http.MethodPost, "/api/timesheets", body, "u-1", domain.RoleUser)

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.UserID != "u-1" {
		t.Fatalf("expected timesheet filed for u-1, got %q", got.UserID)
	}
	if got.DailyHours[domain.Monday] != 8 || got.DailyHours[domain.Tuesday] != 6 {
		t.Fatalf("unexpected daily hours: %+v", got.DailyHours)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["totalHours"] != float64(14) || resp["weekStartDate"] != "2024-03-18" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTimesheetHandler_Submit_RejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown day", `{"projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{"FUNDAY":8}}`},
		{"too many hours", `{"projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{"MONDAY":25}}`},
		{"negative hours", `{"projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{"MONDAY":-1}}`},
		{"bad date", `{"projectId":"p-1","weekStartDate":"18/03/2024","dailyHours":{"MONDAY":8}}`},
		{"no project", `{"weekStartDate":"2024-03-18","dailyHours":{"MONDAY":8}}`},
		{"no hours", `{"projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTimesheetService{
				submitFn: func(context.Context, ports.SubmitTimesheetInput) (*domain.Timesheet, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			c, _ := newContext(http.MethodPost, "/api/timesheets", tt.body, "u-1", domain.RoleUser)

			err := NewTimesheetHandler(stub).Submit(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTimesheetHandler_Submit_ServiceError(t *testing.T) {
	stub := &stubTimesheetService{
		submitFn: func(context.Context, ports.SubmitTimesheetInput) (*domain.Timesheet, error) {
			return nil, domain.ErrDuplicateTimesheet
		},
	}
	body := `{"projectId":"p-1","weekStartDate":"2024-03-18","dailyHours":{"MONDAY":8}}`
	c, _ := newContext(http.MethodPost, "/api/timesheets", body, "u-1", domain.RoleUser)

	err := NewTimesheetHandler(stub).Submit(c)
	if !errors.Is(err, domain.ErrDuplicateTimesheet) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if reason := submissionFailureReason(err); reason != "duplicate" {
		t.Fatalf("expected reason duplicate, got %q", reason)
	}
}

func TestTimesheetHandler_Get_OwnerOrAdmin(t *testing.T) {
	stub := &stubTimesheetService{
		getFn: func(_ context.Context, id string) (*domain.Timesheet, error) {
			return &domain.Timesheet{ID: id, UserID: "owner", Status: domain.TimesheetSubmitted}, nil
		},
	}
	h := NewTimesheetHandler(stub)

	tests := []struct {
		name    string
		userID  string
		role    domain.Role
		wantErr error
	}{
		{"owner", "owner", domain.RoleUser, nil},
		{"admin", "admin-1", domain.RoleAdmin, nil},
		{"other user", "intruder", domain.RoleUser, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/timesheets/ts-1", "", tt.userID, tt.role)
			c.SetParamNames("id")
			c.SetParamValues("ts-1")

			err := h.Get(c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestTimesheetHandler_Get_RequiresPrincipal(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/timesheets/ts-1", "", "", "")

	if err := NewTimesheetHandler(&stubTimesheetService{}).Get(c); err == nil {
		t.Fatal("expected error without principal")
	}
}

func TestTimesheetHandler_Reject_PassesReason(t *testing.T) {
	var gotReason string
	stub := &stubTimesheetService{
		rejectFn: func(_ context.Context, id, reason string) (*domain.Timesheet, error) {
			gotReason = reason
			return &domain.Timesheet{ID: id, Status: domain.TimesheetRejected}, nil
		},
	}
	c, rec := newContext(http.MethodPatch, "/api/timesheets/ts-1/reject?rejectionReason=missing+friday", "", "admin-1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("ts-1")

	if err := NewTimesheetHandler(stub).Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotReason != "missing friday" {
		t.Fatalf("unexpected reason %q", gotReason)
	}
}

func TestTimesheetHandler_UserTimesheets_DefaultsToLastMonth(t *testing.T) {
	var gotStart, gotEnd time.Time
	stub := &stubTimesheetService{
		byUserFn: func(_ context.Context, _ string, start, end time.Time) ([]ports.TimesheetSummary, error) {
			gotStart, gotEnd = start, end
			return nil, nil
		},
	}
	h := NewTimesheetHandler(stub)
	h.now = func() time.Time { return fixedNow }

	c, rec := newContext(http.MethodGet, "/api/timesheets/users/u-1", "", "u-1", domain.RoleUser)
	c.SetParamNames("userId")
	c.SetParamValues("u-1")

	if err := h.UserTimesheets(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if want := time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC); !gotStart.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, gotStart)
	}
	if want := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC); !gotEnd.Equal(want) {
		t.Fatalf("expected end %v, got %v", want, gotEnd)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestTimesheetHandler_UserTimesheets_OtherUserForbidden(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/timesheets/users/u-2", "", "u-1", domain.RoleUser)
	c.SetParamNames("userId")
	c.SetParamValues("u-2")

	err := NewTimesheetHandler(&stubTimesheetService{}).UserTimesheets(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestTimesheetHandler_ProjectTimesheets_RequiresDates(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/api/timesheets/projects/p-1?startDate=2024-03-01", "", "admin-1", domain.RoleAdmin)
	c.SetParamNames("projectId")
	c.SetParamValues("p-1")

	err := NewTimesheetHandler(&stubTimesheetService{}).ProjectTimesheets(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTimesheetHandler_InvertedRange(t *testing.T) {
	called := false
	stub := &stubTimesheetService{
		byUserFn: func(context.Context, string, time.Time, time.Time) ([]ports.TimesheetSummary, error) {
			called = true
			return nil, nil
		},
		byProjFn: func(context.Context, string, time.Time, time.Time) ([]ports.TimesheetSummary, error) {
			called = true
			return nil, nil
		},
	}
	h := NewTimesheetHandler(stub)
	h.now = func() time.Time { return fixedNow }

	tests := []struct {
		name   string
		target string
		param  string
		value  string
		call   func(c echo.Context) error
	}{
		{"project range", "/api/timesheets/projects/p-1?startDate=2024-03-20&endDate=2024-03-01", "projectId", "p-1", h.ProjectTimesheets},
		{"user range", "/api/timesheets/users/u-1?startDate=2024-03-20&endDate=2024-03-01", "userId", "u-1", h.UserTimesheets},
		{"user start after default end", "/api/timesheets/users/u-1?startDate=2024-04-01", "userId", "u-1", h.UserTimesheets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			c, _ := newContext(http.MethodGet, tt.target, "", "u-1", domain.RoleUser)
			c.SetParamNames(tt.param)
			c.SetParamValues(tt.value)

			err := tt.call(c)
			if !errors.Is(err, domain.ErrInvertedRange) || !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected inverted range error, got %v", err)
			}
			if called {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestTimesheetHandler_SameDayRange(t *testing.T) {
	stub := &stubTimesheetService{
		byProjFn: func(context.Context, string, time.Time, time.Time) ([]ports.TimesheetSummary, error) {
			return nil, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/timesheets/projects/p-1?startDate=2024-03-18&endDate=2024-03-18", "", "admin-1", domain.RoleAdmin)
	c.SetParamNames("projectId")
	c.SetParamValues("p-1")

	if err := NewTimesheetHandler(stub).ProjectTimesheets(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
