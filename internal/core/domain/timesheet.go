package domain

import (
	"maps"
	"slices"
	"time"
)

// TimesheetStatus represents the review state of a timesheet.
type TimesheetStatus string

const (
	TimesheetSubmitted TimesheetStatus = "SUBMITTED"
	TimesheetApproved  TimesheetStatus = "APPROVED"
	TimesheetRejected  TimesheetStatus = "REJECTED"
)

// timesheetTransitions mirrors the review workflow: a submission is reviewed once.
var timesheetTransitions = map[TimesheetStatus][]TimesheetStatus{
	TimesheetSubmitted: {TimesheetApproved, TimesheetRejected},
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s TimesheetStatus) CanTransitionTo(next TimesheetStatus) bool {
	return slices.Contains(timesheetTransitions[s], next)
}

// MaxDailyHours is the upper bound for hours logged on a single day.
const MaxDailyHours = 24

// DayOfWeek names a day inside the reporting week.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// Week lists the days in reporting order.
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven week days.
func (d DayOfWeek) Valid() bool {
	return slices.Contains(Week, d)
}

// DailyHours maps each reported day to the hours logged on it.
type DailyHours map[DayOfWeek]int

// Total sums the hours of every reported day.
func (h DailyHours) Total() int {
	total := 0
	for _, hours := range h {
		total += hours
	}
	return total
}

// Clone returns an independent copy of h.
func (h DailyHours) Clone() DailyHours {
	if h == nil {
		return DailyHours{}
	}
	return maps.Clone(h)
}

// Validate checks day names and the per-day hour bounds.
func (h DailyHours) Validate() error {
	if len(h) == 0 {
		return Invalidf("daily hours are required")
	}
	for day, hours := range h {
		if !day.Valid() {
			return Invalidf("unknown day %q", day)
		}
		if hours < 0 || hours > MaxDailyHours {
			return Invalidf("hours for %s must be between 0 and %d", day, MaxDailyHours)
		}
	}
	return nil
}

// Timesheet is one user's weekly hour allocation against one project.
type Timesheet struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	ProjectID     string          `json:"projectId"`
	WeekStartDate time.Time       `json:"weekStartDate"`
	DailyHours    DailyHours      `json:"dailyHours"`
	Description   string          `json:"description"`
	Status        TimesheetStatus `json:"status"`
	SubmittedAt   time.Time       `json:"submittedAt"`
}

// TotalHours returns the hours logged across the whole week.
func (t *Timesheet) TotalHours() int {
	return t.DailyHours.Total()
}

// RejectionNote is appended to a timesheet description when it is rejected.
func RejectionNote(description, reason string) string {
	return description + "\nRejection reason: " + reason
}
