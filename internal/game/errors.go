package game

import (
	"errors"
	"fmt"
)

// ValidationError rejects an action that is illegal in the current state.
// It is always raised before any mutation; the game state is untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConfigurationError reports a malformed card or effect definition. It is
// fatal at startup and never recoverable at runtime.
type ConfigurationError struct {
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Detail)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InvariantViolation marks a defensive internal check failing, such as a
// card appearing in two zones. It is a programming bug, not a recoverable
// runtime condition.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func invariantf(format string, args ...any) error {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation reports whether err is an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
