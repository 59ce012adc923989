package clustercfg

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every ValidationError found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any validation error was recorded.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator accumulates ValidationErrors across several checks, combining
// them through multierr so callers that only care about "is this valid"
// can treat it as a single error while Errors still exposes the individual
// ValidationError values.
type Validator struct {
	combined error
}

// NewValidator returns an empty Validator.
func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) addError(field, message string) {
	v.combined = multierr.Append(v.combined, &ValidationError{Field: field, Message: message})
}

// Errors returns every error recorded so far.
func (v *Validator) Errors() ValidationErrors {
	errs := multierr.Errors(v.combined)
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		if ve, ok := err.(*ValidationError); ok {
			out = append(out, *ve)
		}
	}
	return out
}
