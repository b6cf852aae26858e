package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error unwraps to exactly one of them, which is
// what the transport layer switches on to pick a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
)

// Error is a business-rule failure with a stable code and a client-safe message.
type Error struct {
	kind error
	code string
	msg  string
}

func newError(kind error, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the error kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// Is matches any *Error carrying the same code, so detailed copies created
// with WithDetail still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

// Code returns the machine-readable identifier of the error.
func (e *Error) Code() string { return e.code }

// WithDetail returns a copy of e whose message carries extra context.
func (e *Error) WithDetail(format string, args ...any) *Error {
	return &Error{kind: e.kind, code: e.code, msg: e.msg + ": " + fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound      = newError(ErrNotFound, "user_not_found", "user not found")
	ErrUsersNotFound     = newError(ErrNotFound, "users_not_found", "one or more users not found")
	ErrProjectNotFound   = newError(ErrNotFound, "project_not_found", "project not found")
	ErrTimesheetNotFound = newError(ErrNotFound, "timesheet_not_found", "timesheet not found")

	ErrUserExists           = newError(ErrConflict, "user_exists", "username already exists")
	ErrEmailExists          = newError(ErrConflict, "email_exists", "email already exists")
	ErrProjectExists        = newError(ErrConflict, "project_exists", "project name already exists")
	ErrAllUsersAssigned     = newError(ErrConflict, "all_users_assigned", "all users are already assigned to this project")
	ErrDuplicateTimesheet   = newError(ErrConflict, "duplicate_timesheet", "timesheet already exists for this week")
	ErrSubmissionInProgress = newError(ErrConflict, "submission_in_progress", "a submission for this week is already in progress")

	ErrUserNotAssigned   = newError(ErrInvalidArgument, "user_not_assigned", "user is not assigned to this project")
	ErrInvalidTransition = newError(ErrInvalidArgument, "invalid_transition", "invalid status transition")
	ErrInvertedRange     = newError(ErrInvalidArgument, "inverted_range", "startDate must not be after endDate")

	ErrTimesheetNotSubmitted = newError(ErrInvalidState, "timesheet_not_submitted", "only submitted timesheets can be approved or rejected")

	ErrPasswordMismatch = newError(ErrValidation, "password_mismatch", "passwords do not match")
	ErrInvalidDateRange = newError(ErrValidation, "invalid_date_range", "end date must be after start date")
	ErrNegativeBudget   = newError(ErrValidation, "negative_budget", "total budget hours must not be negative")
	ErrInvalidInput     = newError(ErrValidation, "invalid_input", "invalid input")

	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid_credentials", "invalid credentials")
)

// Invalidf builds a validation error carrying a formatted reason.
func Invalidf(format string, args ...any) error {
	return ErrInvalidInput.WithDetail(format, args...)
}
