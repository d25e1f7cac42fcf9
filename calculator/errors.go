package calculator

import (
	"errors"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTarget is returned when a reverse calculation target is not positive.
	ErrInvalidTarget = errors.New("target net pay must be positive")

	// ErrNoCandidate is returned when the reverse search evaluated nothing.
	ErrNoCandidate = errors.New("no base salary candidate found")

	// ErrInvalidMonth is returned when a calculation needs a month and none
	// was given or inferable.
	ErrInvalidMonth = errors.New("calculation month is required")

	// ErrUnknownWageType is returned for wage types other than MONTHLY and HOURLY.
	ErrUnknownWageType = errors.New("unknown wage type")

	// ErrNegativeIncome is returned when a deduction base is negative.
	ErrNegativeIncome = errors.New("income cannot be negative")
)

// IsClientError returns true if the error was caused by the caller's input.
func IsClientError(err error) bool {
	return payroll.IsClientError(err) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrUnknownWageType) ||
		errors.Is(err, ErrNegativeIncome)
}
