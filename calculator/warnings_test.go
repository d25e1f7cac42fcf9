package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// WARNINGS
// =============================================================================

func generate(t *testing.T, in SalaryInput) []Warning {
	t.Helper()
	res, err := salaryCalc(t).Calculate(in)
	require.NoError(t, err)
	return NewWarningGenerator(table2026(t)).Generate(res)
}

func TestWarnings_Clean(t *testing.T) {
	warnings := generate(t, SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_800_000),
		Shifts:     weekdayShifts(t, jan2026, 1),
	})
	assert.Empty(t, warnings)
}

func TestWarnings_BelowMinimumWage(t *testing.T) {
	// GIVEN: 1,500,000 / 174h = 8,621 won/h
	// THEN: One critical warning naming the shortfall

	warnings := generate(t, SalaryInput{Employee: employee(t), BaseSalary: won(1_500_000), Month: jan2026})

	require.Len(t, warnings, 1)
	assert.Equal(t, LevelCritical, warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "8,621 KRW")
	assert.Contains(t, warnings[0].Detail, "1,699 KRW")
}

func TestWarnings_Over52Hours(t *testing.T) {
	// GIVEN: Five 11h days in one week (55h)
	// THEN: Critical for that week only; the overtime check is skipped

	var shifts []payroll.WorkShift
	for d := 5; d <= 9; d++ {
		shifts = append(shifts, workShift(t, jan(d), "09:00", "21:00", 60, false))
	}
	warnings := generate(t, SalaryInput{
		Employee:      employee(t),
		BaseSalary:    won(3_000_000),
		Shifts:        shifts,
		AbsencePolicy: AbsenceLenient,
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, LevelCritical, warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "2026-W02")
	assert.Contains(t, warnings[0].Message, "55.0")
}

func TestWarnings_ExcessiveOvertime(t *testing.T) {
	// GIVEN: A 3-day employee works six 8h days (48h, 24h overtime)
	// THEN: A warning, not critical, since the week stays under 52h

	var shifts []payroll.WorkShift
	for d := 5; d <= 10; d++ {
		shifts = append(shifts, workShift(t, jan(d), "09:00", "18:00", 60, false))
	}
	warnings := generate(t, SalaryInput{
		Employee:      employee(t, withDays(3)),
		BaseSalary:    won(3_000_000),
		Shifts:        shifts,
		AbsencePolicy: AbsenceLenient,
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "24.0")
}

func TestWarnings_AllowanceRatio(t *testing.T) {
	bonus, err := payroll.NewAllowance(payroll.AllowanceParams{Name: "Team bonus", Amount: won(1_200_000), Taxable: true})
	require.NoError(t, err)

	warnings := generate(t, SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_000_000),
		Allowances: []payroll.Allowance{bonus},
		Month:      jan2026,
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, LevelInfo, warnings[0].Level)
	assert.Contains(t, warnings[0].Detail, "60.0%")
}

func TestWarnings_InclusiveWage(t *testing.T) {
	shifts := append(weekdayShifts(t, jan2026, 1), workShift(t, jan(10), "09:00", "18:00", 60, false))
	in := SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(3_000_000),
		Shifts:     shifts,
	}

	// GIVEN: 12,000 won/h fixed overtime, below 10,320 x 1.5
	in.Inclusive = InclusiveWageOptions{Enabled: true, FixedOvertimeRate: won(12_000), ExpectedOvertimeHours: decimal.NewFromInt(10)}
	warnings := generate(t, in)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelCritical, warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "15,480 KRW")

	// GIVEN: An adequate rate, but 8h worked against 4h covered
	in.Inclusive = InclusiveWageOptions{Enabled: true, FixedOvertimeRate: won(16_000), ExpectedOvertimeHours: decimal.NewFromInt(4)}
	warnings = generate(t, in)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
}

func TestWarnings_NilResult(t *testing.T) {
	assert.Nil(t, NewWarningGenerator(table2026(t)).Generate(nil))
}

// =============================================================================
// SIMULATOR
// =============================================================================

func TestSimulator_DefaultPlans(t *testing.T) {
	// GIVEN: 3,000,000 a month, plan A all base, plan B 60% base
	// THEN: B's lower base saves its severance difference (1,200,000/year)

	cmp, err := NewSalarySimulator(table2026(t)).Compare(SimulationInput{MonthlyTotal: won(3_000_000)})
	require.NoError(t, err)

	a, b := cmp.PlanA, cmp.PlanB
	assertWon(t, 3_000_000, a.BaseSalary)
	assertWon(t, 0, a.Allowances)
	assertWon(t, 17_241, a.HourlyWage)
	assertWon(t, 599_297, a.WeeklyHolidayPay)
	assertWon(t, 137_928, a.AnnualLeavePay)
	assertWon(t, 39_000_000, a.AnnualEmployerCost)

	assertWon(t, 1_800_000, b.BaseSalary)
	assertWon(t, 1_200_000, b.Allowances)
	assertWon(t, 10_345, b.HourlyWage)
	assertWon(t, 37_800_000, b.AnnualEmployerCost)

	assertWon(t, 6_896, cmp.Difference.HourlyWage)
	assertWon(t, 1_200_000, cmp.Difference.AnnualCost)
	assert.True(t, cmp.Difference.AnnualCostPercent.Equal(decimal.RequireFromString("3.2")))
	assert.Contains(t, cmp.Recommendation, "Plan B saves about")
}

func TestSimulator_OvertimeHeavyPlan(t *testing.T) {
	cmp, err := NewSalarySimulator(table2026(t)).Compare(SimulationInput{
		MonthlyTotal:          won(3_000_000),
		ExpectedOvertimeHours: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	assertWon(t, 517_230, cmp.PlanA.OvertimePay)
	assertWon(t, 310_350, cmp.PlanB.OvertimePay)
	assertWon(t, 206_880, cmp.Difference.OvertimePay)
	assertWon(t, 45_206_760, cmp.PlanA.AnnualEmployerCost)
}

func TestSimulator_InvalidInput(t *testing.T) {
	sim := NewSalarySimulator(table2026(t))

	_, err := sim.Compare(SimulationInput{})
	assert.True(t, IsClientError(err))

	_, err = sim.SimulatePlan("custom", decimal.RequireFromString("1.5"), SimulationInput{MonthlyTotal: won(1)})
	assert.True(t, IsClientError(err))

	_, err = sim.Compare(SimulationInput{MonthlyTotal: won(3_000_000), ExpectedNightHours: decimal.NewFromInt(-1)})
	assert.True(t, IsClientError(err))
}
