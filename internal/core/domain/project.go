package domain

import (
	"slices"
	"time"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// projectTransitions defines the allowed state machine transitions.
// COMPLETED and CANCELLED are terminal.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectActive: {ProjectCompleted, ProjectCancelled},
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	return slices.Contains(projectTransitions[s], next)
}

// Project is a unit of billable work that users are assigned to.
type Project struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	StartDate        time.Time     `json:"startDate"`
	EndDate          time.Time     `json:"endDate"`
	Status           ProjectStatus `json:"status"`
	AssignedUsers    []string      `json:"assignedUsers"`
	TotalBudgetHours int           `json:"totalBudgetHours"`
	TotalBilledHours int           `json:"totalBilledHours"`
}

// HasUser reports whether userID is assigned to the project.
func (p *Project) HasUser(userID string) bool {
	return slices.Contains(p.AssignedUsers, userID)
}

// Progress returns billed hours as a percentage of the budget, or 0 when the
// project has no budget.
func (p *Project) Progress() float64 {
	if p.TotalBudgetHours <= 0 {
		return 0
	}
	return float64(p.TotalBilledHours) / float64(p.TotalBudgetHours) * 100
}
