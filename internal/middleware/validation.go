package middleware

import (
	"github.com/go-playground/validator/v10"
)

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "username":
		return e.Field() + " may contain letters, digits and @ . + - _ only"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
