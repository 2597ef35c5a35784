package testutil

import (
	"errors"
	"testing"

	apperrors "envelo/internal/errors"
)

// AssertAppError fails the test unless err wraps an AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with code %q, got %T: %v", expectedCode, err, err)
	}
	if appErr.Code != expectedCode {
		t.Fatalf("expected error code %q, got %q (%v)", expectedCode, appErr.Code, err)
	}
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
