// Package metrics defines and registers all custom Prometheus metrics for the
// timesheet API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timesheet"

// ── Timesheet metrics ─────────────────────────────────────────────────────────

// TimesheetsSubmittedTotal counts accepted timesheet submissions.
var TimesheetsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timesheets_submitted_total",
		Help:      "Total number of timesheets successfully submitted.",
	},
)

// TimesheetSubmissionErrorsTotal counts rejected submissions.
// Label:
//   - reason: "duplicate", "in_progress", "not_assigned", "invalid" or "internal"
var TimesheetSubmissionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timesheet_submission_errors_total",
		Help:      "Total number of timesheet submissions that were rejected.",
	},
	[]string{"reason"},
)

// TimesheetReviewsTotal counts review decisions.
// Label:
//   - decision: "approved" or "rejected"
var TimesheetReviewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timesheet_reviews_total",
		Help:      "Total number of timesheet review decisions, by outcome.",
	},
	[]string{"decision"},
)

// BilledHoursTotal accumulates hours billed through submissions.
var BilledHoursTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billed_hours_total",
		Help:      "Total number of hours billed to projects through timesheet submission.",
	},
)

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly created projects.
var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created.",
	},
)

// ProjectAssignmentsTotal counts user-to-project assignments actually applied.
var ProjectAssignmentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_assignments_total",
		Help:      "Total number of users newly assigned to projects.",
	},
)

// ProjectStatusChangesTotal counts project lifecycle transitions.
// Label:
//   - status: the status the project moved to
var ProjectStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "project_status_changes_total",
		Help:      "Total number of project status transitions, by target status.",
	},
	[]string{"status"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersCreatedTotal counts new accounts.
// Label:
//   - source: "register" (self-service) or "admin"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by source.",
	},
	[]string{"source"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Reporting metrics ─────────────────────────────────────────────────────────

// DashboardDuration measures how long the dashboard rollup takes to compute.
var DashboardDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_duration_seconds",
		Help:      "Duration of the dashboard metrics computation.",
		Buckets:   prometheus.DefBuckets,
	},
)
