package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createUserRequest{Username: "al", Email: "not-an-email", Password: "secret1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{
		"username must be at least 3 characters",
		"email must be a valid email",
		"confirmPassword is required",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_Valid(t *testing.T) {
	err := NewValidator().Validate(&loginRequest{Username: "alice", Password: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
