package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
