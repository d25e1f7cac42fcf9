package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// SALARY INPUT / RESULT
// =============================================================================

// SalaryInput is one month of pay for one employee. Zero values pick the
// defaults: MONTHLY wage, STRICT absence policy, 174 hours mode, a 40-hour
// week, every insurance applied, and the month of the earliest shift.
type SalaryInput struct {
	Employee   payroll.Employee
	BaseSalary payroll.Money // MONTHLY: contracted monthly base
	HourlyRate payroll.Money // HOURLY: contracted hourly rate
	Allowances []payroll.Allowance
	Shifts     []payroll.WorkShift

	WageType      WageType
	Month         payroll.Month
	AbsencePolicy AbsencePolicy
	HoursMode     HoursMode
	WeeklyHours   int

	Insurance InsuranceOptions
	Inclusive InclusiveWageOptions
	// ContractMonthlySalary guarantees an HOURLY employee a monthly minimum;
	// zero disables it.
	ContractMonthlySalary payroll.Money
}

// Contract guarantee outcomes.
const (
	AppliedActualCalculation = "ACTUAL_CALCULATION"
	AppliedContractSalary    = "CONTRACT_SALARY"
)

// WorkSummary aggregates the month's shifts.
type WorkSummary struct {
	Shifts       int
	WorkDays     int // distinct non-holiday dates
	TotalHours   payroll.WorkingHours
	RegularHours payroll.WorkingHours // non-holiday shifts
	HolidayHours payroll.WorkingHours
	NightHours   payroll.WorkingHours
}

// SalaryCalculationResult is the full breakdown of one calculation. Every
// monetary field is rounded to the won.
type SalaryCalculationResult struct {
	Employee      payroll.Employee
	WageType      WageType
	Month         payroll.Month
	HoursMode     HoursMode
	AbsencePolicy AbsencePolicy

	// ContractBaseSalary is the input base (MONTHLY) or hourly-derived base
	// (HOURLY) before deductions; BaseSalary is what is actually paid.
	ContractBaseSalary  payroll.Money
	BaseSalary          payroll.Money
	Allowances          []payroll.Allowance
	RegularWage         payroll.Money
	HourlyWage          payroll.Money
	MonthlyRegularHours decimal.Decimal

	TaxableAllowances    payroll.Money
	NonTaxableAllowances payroll.Money

	Overtime             OvertimeResult
	Inclusive            InclusiveWageOptions
	InclusiveOvertimePay payroll.Money
	WeeklyHoliday        WeeklyHolidayPayResult
	Absence              *AbsenceResult

	AppliedWageMode            string
	ContractDifference         payroll.Money
	ContractGuaranteeAllowance payroll.Money

	TotalGross   payroll.Money
	TaxableGross payroll.Money

	Insurance       InsuranceResult
	Tax             TaxResult
	TotalDeductions payroll.Money
	NetPay          payroll.Money

	WorkSummary WorkSummary
	Shifts      []payroll.WorkShift
}

// =============================================================================
// SALARY CALCULATOR - The pipeline
// =============================================================================

type SalaryCalculator struct {
	table         *rates.Table
	insurance     *InsuranceCalculator
	tax           *TaxCalculator
	overtime      *OvertimeCalculator
	weeklyHoliday *WeeklyHolidayPayCalculator
	absence       *AbsenceCalculator
}

// NewSalaryCalculator wires the component calculators to one rate table.
// calendar supplies public holidays for absence scheduling; nil means none.
func NewSalaryCalculator(table *rates.Table, calendar payroll.HolidayCalendar) *SalaryCalculator {
	return &SalaryCalculator{
		table:         table,
		insurance:     NewInsuranceCalculator(table),
		tax:           NewTaxCalculator(table),
		overtime:      NewOvertimeCalculator(table),
		weeklyHoliday: NewWeeklyHolidayPayCalculator(table),
		absence:       NewAbsenceCalculator(table, calendar),
	}
}

// Table returns the rate table the calculator was built with.
func (c *SalaryCalculator) Table() *rates.Table { return c.table }

// MonthlyRegularHours converts weekly hours (capped at 40) into monthly
// standard hours: weekly x 4.345 in mode 174; in mode 209 the proportional
// weekly holiday (weekly/40 x 8) is added before scaling. Rounded half-up.
func (c *SalaryCalculator) MonthlyRegularHours(weeklyHours int, mode HoursMode) decimal.Decimal {
	wt := c.table.WorkingTime
	capped := hoursDecimal(min(weeklyHours, wt.WeeklyRegularHours))
	if mode == Hours209 {
		holiday := capped.Div(hoursDecimal(wt.WeeklyRegularHours)).Mul(hoursDecimal(wt.DailyRegularHours))
		capped = capped.Add(holiday)
	}
	return capped.Mul(wt.WeeksPerMonth).Round(0)
}

// Calculate runs the pipeline:
//  1. base pay: MONTHLY base less absence, or HOURLY rate x non-holiday hours
//  2. regular wage and hourly wage
//  3. overtime, night and holiday premiums; weekly holiday pay
//  4. gross, taxable gross, insurance, tax and net pay
func (c *SalaryCalculator) Calculate(in SalaryInput) (*SalaryCalculationResult, error) {
	in, err := c.normalize(in)
	if err != nil {
		return nil, err
	}
	emp := in.Employee

	res := &SalaryCalculationResult{
		Employee:                   emp,
		WageType:                   in.WageType,
		Month:                      in.Month,
		HoursMode:                  in.HoursMode,
		AbsencePolicy:              in.AbsencePolicy,
		Allowances:                 in.Allowances,
		Inclusive:                  in.Inclusive,
		InclusiveOvertimePay:       payroll.Zero(),
		ContractDifference:         payroll.Zero(),
		ContractGuaranteeAllowance: payroll.Zero(),
		TaxableAllowances:          payroll.SumAllowances(in.Allowances, payroll.Allowance.IsTaxable),
		NonTaxableAllowances:       payroll.SumAllowances(in.Allowances, payroll.Allowance.IsNonTaxable),
		WorkSummary:                summarize(in.Shifts),
		Shifts:                     in.Shifts,
	}

	// 1-2. Base pay, regular wage, hourly wage
	switch in.WageType {
	case WageMonthly:
		if err := c.monthlyBase(in, res); err != nil {
			return nil, err
		}
	case WageHourly:
		c.hourlyBase(in, res)
	}

	// 3. Premiums and weekly holiday pay
	res.Overtime = c.overtime.Calculate(in.Shifts, res.HourlyWage, emp.CompanySize(), emp.ScheduledWorkDays())
	if in.WageType == WageMonthly && in.Inclusive.Enabled {
		res.InclusiveOvertimePay = in.Inclusive.FixedOvertimePay()
		// Shift overtime hours are kept for the inclusive scheme warning.
		res.Overtime.OvertimePay = payroll.Zero()
	}
	res.WeeklyHoliday = c.weeklyHoliday.Calculate(in.Shifts, res.HourlyWage, emp.ScheduledWorkDays())

	if in.WageType == WageHourly && in.ContractMonthlySalary.IsPositive() {
		actual := res.BaseSalary.Add(res.WeeklyHoliday.WeeklyHolidayPay)
		if actual.GreaterThan(in.ContractMonthlySalary) {
			res.AppliedWageMode = AppliedActualCalculation
			res.ContractDifference = actual.Sub(in.ContractMonthlySalary)
		} else {
			res.AppliedWageMode = AppliedContractSalary
			res.ContractDifference = in.ContractMonthlySalary.Sub(actual)
			res.ContractGuaranteeAllowance = res.ContractDifference
		}
	}

	// 4. Gross, deductions, net
	res.TotalGross = payroll.Sum(
		res.BaseSalary,
		payroll.SumAllowances(in.Allowances, nil),
		res.Overtime.Total(),
		res.InclusiveOvertimePay,
		res.WeeklyHoliday.WeeklyHolidayPay,
		res.ContractGuaranteeAllowance,
	)
	res.TaxableGross = res.TotalGross.Sub(res.NonTaxableAllowances)

	if res.Insurance, err = c.insurance.Calculate(res.TaxableGross, in.Insurance); err != nil {
		return nil, fmt.Errorf("insurance: %w", err)
	}
	if res.Tax, err = c.tax.Calculate(res.TaxableGross, emp.DependentsCount(), emp.ChildrenUnder20()); err != nil {
		return nil, fmt.Errorf("tax: %w", err)
	}
	res.TotalDeductions = res.Insurance.Total().Add(res.Tax.Total())
	res.NetPay = res.TotalGross.Sub(res.TotalDeductions)
	return res, nil
}

// monthlyBase derives the hourly wage from the undeducted regular wage, then
// prices absences with it. The paid base never drops below zero.
func (c *SalaryCalculator) monthlyBase(in SalaryInput, res *SalaryCalculationResult) error {
	res.ContractBaseSalary = in.BaseSalary
	res.RegularWage = in.BaseSalary.Add(payroll.SumAllowances(in.Allowances, payroll.Allowance.IsRegularWage))
	res.MonthlyRegularHours = c.MonthlyRegularHours(in.WeeklyHours, in.HoursMode)

	hourly, err := res.RegularWage.Div(res.MonthlyRegularHours)
	if err != nil {
		return fmt.Errorf("hourly wage: %w", err)
	}
	res.HourlyWage = hourly.RoundToWon()
	res.BaseSalary = in.BaseSalary

	if in.Month.IsZero() || len(in.Shifts) == 0 {
		return nil
	}
	absence, err := c.absence.Calculate(AbsenceInput{
		Shifts:            in.Shifts,
		ScheduledWorkDays: in.Employee.ScheduledWorkDays(),
		Month:             in.Month,
		BaseSalary:        in.BaseSalary,
		Policy:            in.AbsencePolicy,
		CompanySize:       in.Employee.CompanySize(),
		HourlyWage:        res.HourlyWage,
	})
	if err != nil {
		return fmt.Errorf("absence: %w", err)
	}
	res.Absence = &absence
	res.BaseSalary = in.BaseSalary.Sub(absence.TotalDeduction).Max(payroll.Zero())
	return nil
}

// hourlyBase pays the rate for every non-holiday hour worked. Holiday hours
// are paid through the holiday premium.
func (c *SalaryCalculator) hourlyBase(in SalaryInput, res *SalaryCalculationResult) {
	base := in.HourlyRate.Mul(res.WorkSummary.RegularHours.DecimalHours()).RoundToWon()
	res.HourlyWage = in.HourlyRate
	res.ContractBaseSalary = base
	res.BaseSalary = base
	res.RegularWage = base
	res.MonthlyRegularHours = c.MonthlyRegularHours(in.WeeklyHours, in.HoursMode)
}

func (c *SalaryCalculator) normalize(in SalaryInput) (SalaryInput, error) {
	if in.WageType == "" {
		in.WageType = WageMonthly
	}
	if !in.WageType.Valid() {
		return in, fmt.Errorf("%w: %q", ErrUnknownWageType, in.WageType)
	}
	if in.AbsencePolicy == "" {
		in.AbsencePolicy = AbsenceStrict
	}
	if !in.AbsencePolicy.Valid() {
		return in, &payroll.ValidationError{Field: "absence_policy", Reason: fmt.Sprintf("unknown value %q", in.AbsencePolicy)}
	}
	if in.HoursMode == "" {
		in.HoursMode = Hours174
	}
	if !in.HoursMode.Valid() {
		return in, &payroll.ValidationError{Field: "hours_mode", Reason: fmt.Sprintf("unknown value %q", in.HoursMode)}
	}
	if in.WeeklyHours == 0 {
		in.WeeklyHours = c.table.WorkingTime.WeeklyRegularHours
	}
	if in.WeeklyHours < 0 || in.WeeklyHours > 7*24 {
		return in, &payroll.ValidationError{Field: "weekly_hours", Reason: fmt.Sprintf("out of range: %d", in.WeeklyHours)}
	}
	if in.BaseSalary.IsNegative() {
		return in, &payroll.ValidationError{Field: "base_salary", Reason: "cannot be negative"}
	}
	if in.HourlyRate.IsNegative() {
		return in, &payroll.ValidationError{Field: "hourly_wage", Reason: "cannot be negative"}
	}
	if in.ContractMonthlySalary.IsNegative() {
		return in, &payroll.ValidationError{Field: "contract_monthly_salary", Reason: "cannot be negative"}
	}
	if in.Employee.ScheduledWorkDays() == 0 {
		return in, &payroll.ValidationError{Field: "employee", Reason: "is required"}
	}
	if in.Month.IsZero() && len(in.Shifts) > 0 {
		earliest := in.Shifts[0].Date()
		for _, s := range in.Shifts[1:] {
			if s.Date().Before(earliest) {
				earliest = s.Date()
			}
		}
		in.Month = payroll.MonthOf(earliest)
	}
	return in, nil
}

func summarize(shifts []payroll.WorkShift) WorkSummary {
	days := make(map[string]bool)
	for _, s := range shifts {
		if !s.IsHolidayWork() {
			days[s.Date().Format("2006-01-02")] = true
		}
	}
	night := 0
	for _, s := range shifts {
		night += s.NightHours().TotalMinutes()
	}
	return WorkSummary{
		Shifts:       len(shifts),
		WorkDays:     len(days),
		TotalHours:   payroll.TotalWorkingHours(shifts, nil),
		RegularHours: payroll.TotalWorkingHours(shifts, payroll.RegularShift),
		HolidayHours: payroll.TotalWorkingHours(shifts, payroll.HolidayShift),
		NightHours:   payroll.MinutesOf(night),
	}
}
