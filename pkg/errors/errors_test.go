package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound("Booking"),
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name:     "with underlying error",
			appErr:   Unavailable("Failed to read bookings", errors.New("connection refused")),
			expected: "STORAGE_UNAVAILABLE: Failed to read bookings (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"invalid input", InvalidInput("bad date"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"capacity", Capacity("no seats"), CodeCapacity, http.StatusConflict},
		{"rule violation", RuleViolation("holiday", "holiday"), CodeRuleViolation, http.StatusUnprocessableEntity},
		{"unavailable", Unavailable("db down", nil), CodeUnavailable, http.StatusServiceUnavailable},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"forbidden", Forbidden("admins only"), CodeForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("who are you"), CodeUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestRuleViolation_CarriesRuleName(t *testing.T) {
	err := RuleViolation("scheduled_day", "Batch 1 is scheduled")
	if err.Details["rule"] != "scheduled_day" {
		t.Errorf("expected rule detail 'scheduled_day', got %v", err.Details["rule"])
	}
}

func TestWithDetails_KeepsRule(t *testing.T) {
	err := RuleViolation("holiday", "2026-12-25 is a holiday").WithDetails(map[string]any{"date": "2026-12-25"})
	if err.Details["rule"] != "holiday" || err.Details["date"] != "2026-12-25" {
		t.Errorf("details not merged: %v", err.Details)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Unavailable("Failed to read bookings", originalErr)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should reach the original error")
	}
}

func TestStatusCode_DefaultsToInternal(t *testing.T) {
	err := &AppError{Code: CodeInternal, Message: "no status"}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusInternalServerError)
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("allocate: %w", Capacity("full"))

	if !HasCode(wrapped, CodeCapacity) {
		t.Errorf("HasCode() should see through fmt.Errorf wrapping")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Errorf("HasCode() matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeCapacity) {
		t.Errorf("HasCode() should be false for non AppError")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	regularErr := errors.New("regular error")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}
