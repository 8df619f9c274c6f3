package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors shared across services.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotASupervisor     = errors.New("user is not a supervisor")
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrForbidden          = errors.New("operation not permitted")
	ErrWrongOldPassword   = errors.New("old password is incorrect")
)

// UnknownStudentEmailError reports a student email with no matching
// account during project creation.
type UnknownStudentEmailError struct {
	Email string
}

func (e UnknownStudentEmailError) Error() string {
	return fmt.Sprintf("no user found with email %s", e.Email)
}

// FieldErrors maps field names to validation messages. It satisfies
// the error interface so services can return it directly.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, messages := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return strings.Join(parts, ", ")
}

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// fieldErrorsFromValidator flattens validator output into a
// field-to-messages mapping keyed by the JSON field name.
func fieldErrorsFromValidator(err error) (FieldErrors, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	fields := FieldErrors{}
	for _, fieldError := range validationErrors {
		name := strings.ToLower(fieldError.Field())
		fields.Add(name, validationMessage(fieldError))
	}

	return fields, true
}

func validationMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "datetime":
		return "enter a valid date"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldError.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldError.Tag())
	}
}

// validatePassword enforces the account password policy: at least six
// characters and at least one digit.
func validatePassword(password string) FieldErrors {
	fields := FieldErrors{}
	if len(password) < 6 {
		fields.Add("password", "Password must be at least 6 characters long.")
	}
	if !strings.ContainsAny(password, "0123456789") {
		fields.Add("password", "Password must contain at least 1 number.")
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
