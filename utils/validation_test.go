package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeValidationErrorEmail(t *testing.T) {
	// Simulate a validator.ValidationErrors for an email field
	validate := validator.New()

	type TestReq struct {
		Email string `validate:"required,email"`
	}

	err := validate.Struct(TestReq{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error for invalid email")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "email") {
		t.Errorf("expected error message to mention email, got: %s", msg)
	}
	if !strings.Contains(msg, "valid email address") {
		t.Errorf("expected user-friendly email error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Name     string `validate:"required"`
		Password string `validate:"required,min=8"`
	}

	err := validate.Struct(TestReq{})
	if err == nil {
		t.Fatal("expected validation error for missing required fields")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "required") {
		t.Errorf("expected error message to mention 'required', got: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	msg := SanitizeValidationError(nil)
	if msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorMinLength(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Password string `validate:"required,min=8"`
	}

	err := validate.Struct(TestReq{Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "at least") {
		t.Errorf("expected min length message, got: %s", msg)
	}
}

func TestSanitizeValidationErrorNonValidator(t *testing.T) {
	msg := SanitizeValidationError(errors.New("boom"))
	if msg != "Invalid request body" {
		t.Errorf("expected generic message for non-validator error, got: %s", msg)
	}
}
