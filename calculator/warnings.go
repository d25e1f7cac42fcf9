package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// WARNINGS - Labor-law red flags in a finished calculation
// =============================================================================

// WarningLevel orders warnings by severity.
type WarningLevel string

const (
	LevelCritical WarningLevel = "critical" // likely statutory violation
	LevelWarning  WarningLevel = "warning"
	LevelInfo     WarningLevel = "info"
)

type Warning struct {
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
	Detail  string       `json:"detail"`
}

var allowanceRatioLimit = decimal.RequireFromString("0.5")

// oneDecimal is the precision of hours and percentages in messages.
const oneDecimal int32 = 1

type WarningGenerator struct {
	table    *rates.Table
	overtime *OvertimeCalculator
}

func NewWarningGenerator(table *rates.Table) *WarningGenerator {
	return &WarningGenerator{table: table, overtime: NewOvertimeCalculator(table)}
}

// Generate scans res and returns its warnings in a fixed order: minimum wage,
// weekly hours by week, allowance ratio, inclusive wage. A nil result has no
// warnings.
func (g *WarningGenerator) Generate(res *SalaryCalculationResult) []Warning {
	if res == nil {
		return nil
	}
	var out []Warning
	out = append(out, g.checkMinimumWage(res.HourlyWage)...)
	out = append(out, g.checkWeeklyHours(res.Shifts, res.Employee.ScheduledWorkDays())...)
	out = append(out, g.checkAllowanceRatio(res.BaseSalary, res.TotalGross)...)
	if res.WageType == WageMonthly && res.Inclusive.Enabled {
		out = append(out, g.checkInclusiveWage(res.Inclusive, res.Overtime.OvertimeHours)...)
	}
	return out
}

func (g *WarningGenerator) checkMinimumWage(hourly payroll.Money) []Warning {
	minimum := g.table.MinimumWageMoney()
	if !hourly.LessThan(minimum) {
		return nil
	}
	return []Warning{{
		Level: LevelCritical,
		Message: fmt.Sprintf("Below minimum wage: hourly wage %s is under the %d minimum of %s.",
			hourly.Format(), g.table.Year, minimum.Format()),
		Detail: fmt.Sprintf("Short by %s per hour. Paying below the minimum wage is a reportable violation.",
			minimum.Sub(hourly).Format()),
	}}
}

// checkWeeklyHours groups every shift by ISO week. Above the weekly maximum
// (52h) the week is critical; otherwise weekly overtime above the limit (12h)
// is a warning.
func (g *WarningGenerator) checkWeeklyHours(shifts []payroll.WorkShift, scheduledDays int) []Warning {
	if len(shifts) == 0 {
		return nil
	}
	wt := g.table.WorkingTime
	maxMinutes := wt.WeeklyMaxHours * 60
	overtimeLimit := wt.WeeklyOvertimeLimitHours * 60

	totals := make(map[payroll.Week]int)
	for _, s := range shifts {
		totals[payroll.WeekOf(s.Date())] += s.WorkingHours().TotalMinutes()
	}
	weeks := make([]payroll.Week, 0, len(totals))
	for w := range totals {
		weeks = append(weeks, w)
	}
	payroll.SortWeeks(weeks)

	overtime := g.overtime.WeeklyOvertimeMinutes(shifts, scheduledDays)

	var out []Warning
	for _, w := range weeks {
		total := payroll.MinutesOf(totals[w])
		if totals[w] > maxMinutes {
			out = append(out, Warning{
				Level: LevelCritical,
				Message: fmt.Sprintf("Over %dh week: %s totals %s hours.",
					wt.WeeklyMaxHours, w, total.DecimalHours().StringFixed(oneDecimal)),
				Detail: fmt.Sprintf("Workplaces with 5 or more employees may not exceed %dh a week (%dh regular plus %dh overtime).",
					wt.WeeklyMaxHours, wt.WeeklyRegularHours, wt.WeeklyOvertimeLimitHours),
			})
			continue
		}
		if ot := overtime[w]; ot > overtimeLimit {
			out = append(out, Warning{
				Level: LevelWarning,
				Message: fmt.Sprintf("Excessive overtime: %s has %s overtime hours (limit %dh).",
					w, payroll.MinutesOf(ot).DecimalHours().StringFixed(oneDecimal), wt.WeeklyOvertimeLimitHours),
				Detail: fmt.Sprintf("Overtime beyond %dh a week breaches the working hours limit.", wt.WeeklyOvertimeLimitHours),
			})
		}
	}
	return out
}

// checkAllowanceRatio flags pay where everything above base exceeds half of
// base, a common sign of a misused inclusive wage scheme.
func (g *WarningGenerator) checkAllowanceRatio(base, gross payroll.Money) []Warning {
	if !base.IsPositive() || !gross.IsPositive() {
		return nil
	}
	ratio := gross.Sub(base).Amount().Div(base.Amount())
	if !ratio.GreaterThan(allowanceRatioLimit) {
		return nil
	}
	return []Warning{{
		Level:   LevelInfo,
		Message: "High allowance share: allowances exceed 50% of base salary.",
		Detail: fmt.Sprintf("Allowances and premiums are %s%% of base. Under an inclusive wage scheme, check that actual overtime is measured; unpaid overtime counts as wage arrears.",
			ratio.Mul(decimal.NewFromInt(100)).StringFixed(oneDecimal)),
	}}
}

// checkInclusiveWage compares the fixed overtime rate with the statutory
// overtime rate on the minimum wage, and the worked overtime with the hours
// the fixed pay covers.
func (g *WarningGenerator) checkInclusiveWage(opts InclusiveWageOptions, worked payroll.WorkingHours) []Warning {
	var out []Warning
	floor := g.table.MinimumWageMoney().Mul(g.table.Premiums.Overtime).RoundToWon()
	if opts.FixedOvertimeRate.LessThan(floor) {
		out = append(out, Warning{
			Level: LevelCritical,
			Message: fmt.Sprintf("Inclusive overtime rate %s is below %s (minimum wage x %s).",
				opts.FixedOvertimeRate.Format(), floor.Format(), g.table.Premiums.Overtime),
			Detail: "The fixed overtime pay does not cover the statutory overtime premium.",
		})
	}
	if worked.DecimalHours().GreaterThan(opts.ExpectedOvertimeHours) {
		out = append(out, Warning{
			Level: LevelWarning,
			Message: fmt.Sprintf("Worked overtime %s hours exceeds the %s hours covered by inclusive pay.",
				worked.DecimalHours().StringFixed(oneDecimal), opts.ExpectedOvertimeHours.String()),
			Detail: "Overtime beyond the agreed hours must be paid separately.",
		})
	}
	return out
}
