/*
errors.go - Error types for value objects and entities

ERROR CATEGORIES:
  1. Construction errors - An entity or value object violates an invariant
     (negative counts, empty names, break longer than the shift)
  2. Domain-state errors - Arithmetic that has no meaning (division by zero,
     mixing currencies, negative working time)

Both are local, synchronous failures. Nothing here is retryable.

USAGE:
  emp, err := payroll.NewEmployee(...)
  if errors.Is(err, payroll.ErrValidation) {
      var ve *payroll.ValidationError
      errors.As(err, &ve) // ve.Field names the offending input
  }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every construction failure.
	ErrValidation = errors.New("validation failed")

	// ErrCurrencyMismatch is returned (or carried by a panic) when two amounts
	// of different currencies are combined or compared.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrDivisionByZero is returned when Money is divided by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNegativeHours is returned when working time would become negative.
	ErrNegativeHours = errors.New("negative working hours")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError names the field that broke an invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsClientError returns true if the error was caused by bad input rather
// than by the engine.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCurrencyMismatch) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrNegativeHours)
}
