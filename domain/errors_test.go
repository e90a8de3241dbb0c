package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "ErrAdminNotFound", err: ErrAdminNotFound, expectedMsg: "admin not found"},
		{name: "ErrInvalidCredentials", err: ErrInvalidCredentials, expectedMsg: "invalid credentials"},
		{name: "ErrSessionExpired", err: ErrSessionExpired, expectedMsg: "session has expired"},
		{name: "ErrEmptyContent", err: ErrEmptyContent, expectedMsg: "message or file is required"},
		{name: "ErrNoRecipients", err: ErrNoRecipients, expectedMsg: "please select at least one contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}

			wrapped := fmt.Errorf("context: %w", tt.err)
			if !errors.Is(wrapped, tt.err) {
				t.Error("wrapped error should match sentinel")
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("taluka_id", "Please select a Taluka.")

	if err.Error() != "Please select a Taluka." {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("validation error should match ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(fmt.Errorf("edit: %w", err), &ve) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if ve.Field != "taluka_id" {
		t.Errorf("expected field taluka_id, got %q", ve.Field)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{name: "with message", err: &APIError{Status: 500, Message: "db down"}, expected: "upstream returned status 500: db down"},
		{name: "without message", err: &APIError{Status: 502}, expected: "upstream returned status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}
