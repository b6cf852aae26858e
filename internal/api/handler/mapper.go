package handler

import (
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             string(u.Role),
		AssignedProjects: nonNil(u.AssignedProjects),
		CreatedAt:        u.CreatedAt,
	}
}

func toUserSummaryResponse(u ports.UserSummary) userResponse {
	return userResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             string(u.Role),
		AssignedProjects: nonNil(u.AssignedProjects),
		CreatedAt:        u.CreatedAt,
	}
}

func toUserWeeklyStatsResponse(s ports.UserWeeklyStats) userWeeklyStatsResponse {
	hours := s.ProjectHours
	if hours == nil {
		hours = map[string]int{}
	}
	return userWeeklyStatsResponse{
		UserID:                s.UserID,
		Username:              s.Username,
		WeekStartDate:         s.WeekStartDate.Format(domain.DateLayout),
		ProjectHours:          hours,
		TotalHours:            s.TotalHours,
		UtilizationPercentage: s.UtilizationPercentage,
	}
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Status:           string(p.Status),
		AssignedUsers:    nonNil(p.AssignedUsers),
		TotalBudgetHours: p.TotalBudgetHours,
		TotalBilledHours: p.TotalBilledHours,
	}
}

func toProjectStatsResponse(s ports.ProjectStats) projectStatsResponse {
	return projectStatsResponse{
		ProjectID:           s.ProjectID,
		ProjectName:         s.ProjectName,
		ActiveResourceCount: s.ActiveResourceCount,
		TotalBilledHours:    s.TotalBilledHours,
		ProjectProgress:     s.ProjectProgress,
		ActiveResources:     nonNil(s.ActiveResources),
	}
}

func fromProjectStatsResponse(s projectStatsResponse) ports.ProjectStats {
	return ports.ProjectStats{
		ProjectID:           s.ProjectID,
		ProjectName:         s.ProjectName,
		ActiveResourceCount: s.ActiveResourceCount,
		TotalBilledHours:    s.TotalBilledHours,
		ProjectProgress:     s.ProjectProgress,
		ActiveResources:     s.ActiveResources,
	}
}

func fromUserWeeklyStatsResponse(s userWeeklyStatsResponse) ports.UserWeeklyStats {
	week, _ := domain.ParseDate(s.WeekStartDate)
	return ports.UserWeeklyStats{
		UserID:                s.UserID,
		Username:              s.Username,
		WeekStartDate:         week,
		ProjectHours:          s.ProjectHours,
		TotalHours:            s.TotalHours,
		UtilizationPercentage: s.UtilizationPercentage,
	}
}

func toProjectDetailResponse(d *ports.ProjectDetail) projectDetailResponse {
	users := make([]userResponse, 0, len(d.AssignedUsers))
	for _, u := range d.AssignedUsers {
		users = append(users, toUserSummaryResponse(u))
	}
	return projectDetailResponse{
		ProjectID:        d.ProjectID,
		ProjectName:      d.ProjectName,
		Description:      d.Description,
		Status:           string(d.Status),
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		AssignedUsers:    users,
		TotalBudgetHours: d.TotalBudgetHours,
		TotalBilledHours: d.TotalBilledHours,
		RecentTimesheets: toSummaryResponses(d.RecentTimesheets),
	}
}

func toTimesheetResponse(t *domain.Timesheet) timesheetResponse {
	hours := make(map[string]int, len(t.DailyHours))
	for day, h := range t.DailyHours {
		hours[string(day)] = h
	}
	return timesheetResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		ProjectID:     t.ProjectID,
		WeekStartDate: t.WeekStartDate.Format(domain.DateLayout),
		DailyHours:    hours,
		TotalHours:    t.TotalHours(),
		Description:   t.Description,
		Status:        string(t.Status),
		SubmittedAt:   t.SubmittedAt,
	}
}

func toSummaryResponses(in []ports.TimesheetSummary) []timesheetSummaryResponse {
	out := make([]timesheetSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, timesheetSummaryResponse{
			ID:            s.ID,
			ProjectID:     s.ProjectID,
			WeekStartDate: s.WeekStartDate.Format(domain.DateLayout),
			TotalHours:    s.TotalHours,
			Status:        string(s.Status),
			SubmittedAt:   s.SubmittedAt,
		})
	}
	return out
}

func toDailyHours(in map[string]int) domain.DailyHours {
	out := make(domain.DailyHours, len(in))
	for day, h := range in {
		out[domain.DayOfWeek(day)] = h
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
