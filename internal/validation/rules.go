// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/secureai/gateway/internal/errors"
)

var (
	// scopeRegex matches "resource:action" scope strings.
	scopeRegex = regexp.MustCompile(`^[a-z][a-z0-9_\-]*:[a-z][a-z0-9_\-]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// ScopeFormat validates that a string is a well-formed "resource:action" scope.
var ScopeFormat = validation.NewStringRuleWithError(
	func(s string) bool {
		return scopeRegex.MatchString(s)
	},
	validation.NewError("validation_scope_format", "must be a resource:action scope string"),
)

// Temperature validates that a sampling temperature is within the accepted range.
type Temperature struct {
	Min float64
	Max float64
}

// Validate checks the temperature value against the configured bounds.
func (t Temperature) Validate(value interface{}) error {
	v, ok := value.(float64)
	if !ok {
		return validation.NewError("validation_temperature_type", "temperature must be a number")
	}
	if v < t.Min || v > t.Max {
		return validation.NewError("validation_temperature_range", "temperature out of range")
	}
	return nil
}
