package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// SIMULATOR - Base salary vs. allowance split of one monthly total
// =============================================================================

// Default splits: plan A pays everything as base, plan B pays 60% as base.
var (
	DefaultRatioA = decimal.NewFromInt(1)
	DefaultRatioB = decimal.RequireFromString("0.6")

	bigSavingThreshold = payroll.NewMoney(1_000_000)
	hundred            = decimal.NewFromInt(100)
)

// SimulationInput describes the monthly total and the expected premium hours.
// Zero ratios take the defaults; a zero WeeklyHours means 40.
type SimulationInput struct {
	MonthlyTotal          payroll.Money
	WeeklyHours           int
	ExpectedOvertimeHours decimal.Decimal
	ExpectedNightHours    decimal.Decimal
	ExpectedHolidayHours  decimal.Decimal
	RatioA                decimal.Decimal
	RatioB                decimal.Decimal
}

// SimulationPlan is one split. Severance is the monthly base (one year of
// service); annual cost is (total + premiums) x 12 + severance.
type SimulationPlan struct {
	Name               string
	BaseSalary         payroll.Money
	Allowances         payroll.Money
	MonthlyTotal       payroll.Money
	MonthlyHours       decimal.Decimal
	HourlyWage         payroll.Money
	OvertimePay        payroll.Money
	NightPay           payroll.Money
	HolidayPay         payroll.Money
	WeeklyHolidayPay   payroll.Money
	SeverancePay       payroll.Money
	AnnualLeavePay     payroll.Money // one day
	AnnualEmployerCost payroll.Money
	Formulas           SimulationFormulas
}

type SimulationFormulas struct {
	HourlyWage string
	Overtime   string
	Severance  string
	AnnualCost string
}

// SimulationDifference is plan A minus plan B.
type SimulationDifference struct {
	HourlyWage        payroll.Money
	OvertimePay       payroll.Money
	SeverancePay      payroll.Money
	AnnualCost        payroll.Money
	AnnualCostPercent decimal.Decimal // of plan B's annual cost
}

type SimulationComparison struct {
	PlanA          SimulationPlan
	PlanB          SimulationPlan
	Difference     SimulationDifference
	Recommendation string
}

type SalarySimulator struct {
	table *rates.Table
}

func NewSalarySimulator(table *rates.Table) *SalarySimulator {
	return &SalarySimulator{table: table}
}

// Compare simulates plans A and B over the same inputs.
func (s *SalarySimulator) Compare(in SimulationInput) (SimulationComparison, error) {
	if in.RatioA.IsZero() {
		in.RatioA = DefaultRatioA
	}
	if in.RatioB.IsZero() {
		in.RatioB = DefaultRatioB
	}
	a, err := s.SimulatePlan("Plan A (high base)", in.RatioA, in)
	if err != nil {
		return SimulationComparison{}, err
	}
	b, err := s.SimulatePlan("Plan B (low base + allowances)", in.RatioB, in)
	if err != nil {
		return SimulationComparison{}, err
	}

	diff := SimulationDifference{
		HourlyWage:        a.HourlyWage.Sub(b.HourlyWage),
		OvertimePay:       a.OvertimePay.Sub(b.OvertimePay),
		SeverancePay:      a.SeverancePay.Sub(b.SeverancePay),
		AnnualCost:        a.AnnualEmployerCost.Sub(b.AnnualEmployerCost),
		AnnualCostPercent: decimal.Zero,
	}
	if b.AnnualEmployerCost.IsPositive() {
		diff.AnnualCostPercent = diff.AnnualCost.Amount().
			DivRound(b.AnnualEmployerCost.Amount(), 4).
			Mul(hundred).
			Round(1)
	}

	return SimulationComparison{
		PlanA:          a,
		PlanB:          b,
		Difference:     diff,
		Recommendation: recommend(diff),
	}, nil
}

// SimulatePlan splits in.MonthlyTotal by ratio (base share, 0 to 1).
func (s *SalarySimulator) SimulatePlan(name string, ratio decimal.Decimal, in SimulationInput) (SimulationPlan, error) {
	if !in.MonthlyTotal.IsPositive() {
		return SimulationPlan{}, &payroll.ValidationError{Field: "monthly_total", Reason: "must be positive"}
	}
	if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
		return SimulationPlan{}, &payroll.ValidationError{Field: "base_salary_ratio", Reason: fmt.Sprintf("must be between 0 and 1, got %s", ratio)}
	}
	for field, h := range map[string]decimal.Decimal{
		"expected_overtime_hours": in.ExpectedOvertimeHours,
		"expected_night_hours":    in.ExpectedNightHours,
		"expected_holiday_hours":  in.ExpectedHolidayHours,
	} {
		if h.IsNegative() {
			return SimulationPlan{}, &payroll.ValidationError{Field: field, Reason: "cannot be negative"}
		}
	}
	weekly := in.WeeklyHours
	if weekly == 0 {
		weekly = s.table.WorkingTime.WeeklyRegularHours
	}
	if weekly < 0 {
		return SimulationPlan{}, &payroll.ValidationError{Field: "weekly_hours", Reason: "cannot be negative"}
	}

	wt := s.table.WorkingTime
	pr := s.table.Premiums
	daily := hoursDecimal(wt.DailyRegularHours)
	monthlyHours := hoursDecimal(min(weekly, wt.WeeklyRegularHours)).Mul(wt.WeeksPerMonth).Round(0)

	base := in.MonthlyTotal.Mul(ratio).RoundToWon()
	hourly := payroll.Zero()
	if monthlyHours.IsPositive() {
		h, err := base.Div(monthlyHours)
		if err != nil {
			return SimulationPlan{}, err
		}
		hourly = h.RoundToWon()
	}

	plan := SimulationPlan{
		Name:             name,
		BaseSalary:       base,
		Allowances:       in.MonthlyTotal.Sub(base),
		MonthlyTotal:     in.MonthlyTotal,
		MonthlyHours:     monthlyHours,
		HourlyWage:       hourly,
		OvertimePay:      hourly.Mul(in.ExpectedOvertimeHours).Mul(pr.Overtime).RoundToWon(),
		NightPay:         hourly.Mul(in.ExpectedNightHours).Mul(pr.Night).RoundToWon(),
		HolidayPay:       hourly.Mul(in.ExpectedHolidayHours).Mul(pr.Holiday).RoundToWon(),
		WeeklyHolidayPay: hourly.Mul(daily).Mul(wt.WeeksPerMonth).RoundToWon(),
		SeverancePay:     base,
		AnnualLeavePay:   hourly.Mul(daily).RoundToWon(),
	}
	monthly := payroll.Sum(in.MonthlyTotal, plan.OvertimePay, plan.NightPay, plan.HolidayPay)
	plan.AnnualEmployerCost = monthly.MulInt(12).Add(plan.SeverancePay).RoundToWon()

	plan.Formulas = SimulationFormulas{
		HourlyWage: fmt.Sprintf("%s / %sh = %s", base.Format(), monthlyHours, hourly.Format()),
		Overtime: fmt.Sprintf("%s x %sh x %s = %s",
			hourly.Format(), in.ExpectedOvertimeHours, pr.Overtime, plan.OvertimePay.Format()),
		Severance:  fmt.Sprintf("base %s (one year of service)", base.Format()),
		AnnualCost: fmt.Sprintf("(%s x 12) + %s = %s", monthly.Format(), plan.SeverancePay.Format(), plan.AnnualEmployerCost.Format()),
	}
	return plan, nil
}

func recommend(diff SimulationDifference) string {
	switch {
	case diff.AnnualCost.GreaterThan(bigSavingThreshold):
		return fmt.Sprintf("Plan B saves about %s a year. Check it against the minimum wage before adopting it.",
			diff.AnnualCost.Format())
	case diff.AnnualCost.IsPositive():
		return fmt.Sprintf("Plan B saves %s%% (%s) a year, but lowers the employee's severance and annual leave pay.",
			diff.AnnualCostPercent.StringFixed(1), diff.AnnualCost.Format())
	case diff.AnnualCost.IsNegative():
		return "Plan A is cheaper: plan B's allowances raise premium costs. With little overtime, plan A is recommended."
	default:
		return "Both plans cost about the same per year. Let employee preference decide."
	}
}
