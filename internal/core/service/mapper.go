package service

import (
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

func toUserSummary(u *domain.User) ports.UserSummary {
	return ports.UserSummary{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		AssignedProjects: u.AssignedProjects,
		CreatedAt:        u.CreatedAt,
	}
}

func toSummary(t *domain.Timesheet) ports.TimesheetSummary {
	return ports.TimesheetSummary{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		WeekStartDate: t.WeekStartDate,
		TotalHours:    t.TotalHours(),
		Status:        t.Status,
		SubmittedAt:   t.SubmittedAt,
	}
}

func toSummaries(ts []*domain.Timesheet) []ports.TimesheetSummary {
	out := make([]ports.TimesheetSummary, 0, len(ts))
	for _, t := range ts {
		out = append(out, toSummary(t))
	}
	return out
}
