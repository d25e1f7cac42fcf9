/*
Package calculator turns payroll entities into a monthly pay calculation.

PURPOSE:
  Five independent calculators (insurance, tax, overtime, weekly holiday
  pay, absence) are sequenced by SalaryCalculator into one result. The
  ReverseSalaryCalculator inverts that pipeline with a binary search, and
  WarningGenerator scans a finished result for labor-law red flags.

KEY CONCEPTS:
  - Regular wage (통상임금): base pay plus allowances flagged as regular;
    the basis of the hourly wage
  - Hourly wage: regular wage / monthly standard hours (174 or 209 mode)
  - Round early: every monetary component is rounded to the won before it
    is summed into a total

DESIGN PRINCIPLES:
  1. Pure: no I/O, no shared mutable state; calculators are safe for
     concurrent use once built
  2. Table-driven: every rate comes from a rates.Table
  3. Explicit inputs: month, wage type and policies are fields of
     SalaryInput, never globals

USAGE:
  table := rates.Default().Resolve(2026)
  calc := calculator.NewSalaryCalculator(table, rates.Default().Calendar())
  res, err := calc.Calculate(calculator.SalaryInput{...})
  warnings := calculator.NewWarningGenerator(table).Generate(res)

SEE ALSO:
  - payroll/: Money, WorkingHours, Employee, WorkShift, Allowance
  - rates/: statutory constants
*/
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// ENUMS
// =============================================================================

// WageType selects how the base pay is derived.
type WageType string

const (
	// WageMonthly pays a contracted monthly salary, less absence deductions.
	WageMonthly WageType = "MONTHLY"
	// WageHourly pays an hourly rate for the hours actually worked.
	WageHourly WageType = "HOURLY"
)

func (t WageType) Valid() bool { return t == WageMonthly || t == WageHourly }

// AbsencePolicy controls what an unexcused absence costs a monthly employee.
type AbsencePolicy string

const (
	// AbsenceStrict deducts the daily wage and the lost weekly holiday pay.
	AbsenceStrict AbsencePolicy = "STRICT"
	// AbsenceModerate deducts only the lost weekly holiday pay.
	AbsenceModerate AbsencePolicy = "MODERATE"
	// AbsenceLenient deducts nothing.
	AbsenceLenient AbsencePolicy = "LENIENT"
)

func (p AbsencePolicy) Valid() bool {
	return p == AbsenceStrict || p == AbsenceModerate || p == AbsenceLenient
}

// HoursMode selects the monthly standard hours used to derive the hourly wage.
type HoursMode string

const (
	// Hours174 counts worked hours only (40h x 4.345 = 174). Weekly holiday
	// pay is computed separately, so this is the default.
	Hours174 HoursMode = "174"
	// Hours209 folds the paid weekly holiday into the month (48h x 4.345 = 209).
	Hours209 HoursMode = "209"
)

func (m HoursMode) Valid() bool { return m == Hours174 || m == Hours209 }

// =============================================================================
// OPTIONS
// =============================================================================

// InsuranceOptions exempts an employee from individual social insurances.
// The zero value applies all four. Long-term care is levied on the health
// insurance contribution, so exempting health also exempts long-term care.
type InsuranceOptions struct {
	ExemptPension      bool
	ExemptHealth       bool
	ExemptLongTermCare bool
	ExemptEmployment   bool
}

// InclusiveWageOptions describes a fixed (inclusive) overtime scheme: a fixed
// amount per expected overtime hour replaces the overtime pay computed from
// shifts. Night and holiday premiums are still computed from shifts.
type InclusiveWageOptions struct {
	Enabled               bool
	FixedOvertimeRate     payroll.Money   // per hour
	ExpectedOvertimeHours decimal.Decimal // per month
}

// FixedOvertimePay is FixedOvertimeRate x ExpectedOvertimeHours, rounded.
func (o InclusiveWageOptions) FixedOvertimePay() payroll.Money {
	if !o.Enabled || !o.FixedOvertimeRate.IsPositive() || !o.ExpectedOvertimeHours.IsPositive() {
		return payroll.Zero()
	}
	return o.FixedOvertimeRate.Mul(o.ExpectedOvertimeHours).RoundToWon()
}

// =============================================================================
// HELPERS
// =============================================================================

var zero = payroll.Zero()

// payFor is round(hourly x hours x multiplier).
func payFor(hourly payroll.Money, hours payroll.WorkingHours, multiplier decimal.Decimal) payroll.Money {
	return hourly.Mul(hours.DecimalHours()).Mul(multiplier).RoundToWon()
}

func hoursDecimal(h int) decimal.Decimal { return decimal.NewFromInt(int64(h)) }
