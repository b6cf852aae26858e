package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tempoworks/timesheet-system/internal/api/middleware"
	"github.com/tempoworks/timesheet-system/internal/core/domain"
	"github.com/tempoworks/timesheet-system/internal/core/ports"
)

// ctxPrincipal extracts the identity injected by the Auth middleware and
// fails fast when it is absent or incomplete.
func ctxPrincipal(c echo.Context) (ports.Principal, error) {
	userID, _ := c.Get(middleware.ContextKeyUserID).(string)
	role, _ := c.Get(middleware.ContextKeyRole).(domain.Role)
	if userID == "" || !role.Valid() {
		return ports.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ := c.Get(middleware.ContextKeyUsername).(string)
	return ports.Principal{UserID: userID, Username: username, Role: role}, nil
}

// requireSelfOrAdmin allows admins and the user identified by userID.
func requireSelfOrAdmin(p ports.Principal, userID string) error {
	if p.IsAdmin() || p.UserID == userID {
		return nil
	}
	return domain.ErrForbidden
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// dateRange reads the startDate and endDate query parameters, falling back
// as dateParam does, and rejects a range whose start is after its end.
func dateRange(c echo.Context, fallbackStart, fallbackEnd time.Time) (time.Time, time.Time, error) {
	start, err := dateParam(c, "startDate", fallbackStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := dateParam(c, "endDate", fallbackEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvertedRange
	}
	return start, end, nil
}

// dateParam reads a YYYY-MM-DD query parameter. An empty parameter yields
// fallback; a zero fallback makes the parameter required.
func dateParam(c echo.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		if fallback.IsZero() {
			return time.Time{}, domain.Invalidf("%s is required", name)
		}
		return fallback, nil
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.Invalidf("%s must be a date in YYYY-MM-DD format", name)
	}
	return d, nil
}
