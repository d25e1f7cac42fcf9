package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// SALARY PIPELINE
// =============================================================================

func salaryCalc(t *testing.T) *SalaryCalculator {
	return NewSalaryCalculator(table2026(t), rates.Default().Calendar())
}

func TestSalary_MonthlyFullAttendance(t *testing.T) {
	// GIVEN: 2,800,000 won monthly base, one dependent, every January
	//        weekday worked except New Year's Day
	// WHEN: The month is inferred from the shifts
	// THEN: Hourly wage 16,092 (174h); four weeks of holiday pay; net pay
	//       after insurance and tax is 2,923,354

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_800_000),
		Shifts:     weekdayShifts(t, jan2026, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, jan2026, res.Month)
	assert.Equal(t, WageMonthly, res.WageType)
	assert.True(t, res.MonthlyRegularHours.Equal(decimal.NewFromInt(174)))
	assertWon(t, 16_092, res.HourlyWage)
	assertWon(t, 2_800_000, res.BaseSalary)

	require.NotNil(t, res.Absence)
	assert.Zero(t, res.Absence.AbsentDays)

	assertWon(t, 0, res.Overtime.Total())
	assertWon(t, 514_944, res.WeeklyHoliday.WeeklyHolidayPay)
	assertWon(t, 3_314_944, res.TotalGross)
	assertWon(t, 3_314_944, res.TaxableGross)
	assertWon(t, 313_611, res.Insurance.Total())
	assertWon(t, 70_890, res.Tax.IncomeTax)
	assertWon(t, 7_089, res.Tax.LocalIncomeTax)
	assertWon(t, 391_590, res.TotalDeductions)
	assertWon(t, 2_923_354, res.NetPay)

	assert.Equal(t, 21, res.WorkSummary.Shifts)
	assert.Equal(t, 21, res.WorkSummary.WorkDays)
	assert.Equal(t, 168*60, res.WorkSummary.TotalHours.TotalMinutes())
}

func TestSalary_HoursModes(t *testing.T) {
	calc := salaryCalc(t)
	in := SalaryInput{Employee: employee(t), BaseSalary: won(2_800_000), Month: jan2026}

	in.HoursMode = Hours174
	res, err := calc.Calculate(in)
	require.NoError(t, err)
	assertWon(t, 16_092, res.HourlyWage)

	in.HoursMode = Hours209
	res, err = calc.Calculate(in)
	require.NoError(t, err)
	assert.True(t, res.MonthlyRegularHours.Equal(decimal.NewFromInt(209)))
	assertWon(t, 13_397, res.HourlyWage)
}

func TestSalary_MonthlyRegularHours(t *testing.T) {
	calc := salaryCalc(t)

	assert.True(t, calc.MonthlyRegularHours(40, Hours174).Equal(decimal.NewFromInt(174)))
	assert.True(t, calc.MonthlyRegularHours(52, Hours174).Equal(decimal.NewFromInt(174)), "capped at 40h")
	assert.True(t, calc.MonthlyRegularHours(20, Hours174).Equal(decimal.NewFromInt(87)))
	// (20 + 4) x 4.345 = 104.28
	assert.True(t, calc.MonthlyRegularHours(20, Hours209).Equal(decimal.NewFromInt(104)))
}

func TestSalary_Allowances(t *testing.T) {
	// GIVEN: 2,500,000 base + 300,000 position allowance (regular wage)
	//        + 200,000 meal allowance (non-taxable), no shifts
	// THEN: Regular wage 2,800,000; taxable gross excludes the meal allowance

	meal, err := payroll.MealAllowance(won(200_000))
	require.NoError(t, err)
	position, err := payroll.PositionAllowance(won(300_000))
	require.NoError(t, err)

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_500_000),
		Allowances: []payroll.Allowance{meal, position},
		Month:      jan2026,
	})
	require.NoError(t, err)

	assert.Nil(t, res.Absence, "no shifts, no absence evaluation")
	assertWon(t, 2_800_000, res.RegularWage)
	assertWon(t, 16_092, res.HourlyWage)
	assertWon(t, 300_000, res.TaxableAllowances)
	assertWon(t, 200_000, res.NonTaxableAllowances)
	assertWon(t, 3_000_000, res.TotalGross)
	assertWon(t, 2_800_000, res.TaxableGross)
	assertWon(t, 264_895, res.Insurance.Total())
	assertWon(t, 53_999, res.Tax.Total())
	assertWon(t, 2_681_106, res.NetPay)
}

func TestSalary_AllowancesWithFullAttendance(t *testing.T) {
	// GIVEN: Two dependents (one child under 20), 2,500,000 base,
	//        300,000 position allowance and 200,000 meal allowance,
	//        every January weekday worked except New Year's Day
	// WHEN: Calculated
	// THEN: The position allowance raises the hourly wage to 16,092 and the
	//       weekly holiday pay with it; the meal allowance is paid but
	//       neither insured nor taxed; net pay is 3,152,988

	meal, err := payroll.MealAllowance(won(200_000))
	require.NoError(t, err)
	position, err := payroll.PositionAllowance(won(300_000))
	require.NoError(t, err)

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t, withDependents(2, 1)),
		BaseSalary: won(2_500_000),
		Allowances: []payroll.Allowance{position, meal},
		Shifts:     weekdayShifts(t, jan2026, 1),
	})
	require.NoError(t, err)

	assertWon(t, 2_800_000, res.RegularWage)
	assertWon(t, 16_092, res.HourlyWage)
	require.NotNil(t, res.Absence)
	assert.Zero(t, res.Absence.AbsentDays)
	assertWon(t, 514_944, res.WeeklyHoliday.WeeklyHolidayPay)
	assertWon(t, 3_514_944, res.TotalGross)
	assertWon(t, 3_314_944, res.TaxableGross)
	assertWon(t, 313_611, res.Insurance.Total())
	assertWon(t, 48_345, res.Tax.Total())
	assertWon(t, 3_152_988, res.NetPay)
}

func TestSalary_StrictAbsenceReducesBase(t *testing.T) {
	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_800_000),
		Shifts:     weekdayShifts(t, jan2026, 1, 14),
	})
	require.NoError(t, err)

	require.NotNil(t, res.Absence)
	assertWon(t, 262_069, res.Absence.TotalDeduction)
	assertWon(t, 2_537_931, res.BaseSalary)
	assertWon(t, 2_800_000, res.ContractBaseSalary)
	assertWon(t, 16_092, res.HourlyWage, "hourly wage uses the undeducted base")
	assert.Equal(t, 3, res.WeeklyHoliday.QualifyingWeeks)
}

func TestSalary_BaseNeverNegative(t *testing.T) {
	// GIVEN: A small base and no scheduled day worked (one Saturday shift)
	// THEN: Deductions exceed the base, which stops at zero

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(100_000),
		Shifts:     []payroll.WorkShift{workShift(t, jan(10), "09:00", "18:00", 60, false)},
	})
	require.NoError(t, err)

	assert.Equal(t, 21, res.Absence.AbsentDays)
	assert.True(t, res.Absence.TotalDeduction.GreaterThan(won(100_000)))
	assertWon(t, 0, res.BaseSalary)
}

func TestSalary_Hourly(t *testing.T) {
	// GIVEN: 12,000 won/h for 168 non-holiday hours in January
	// THEN: Base 2,016,000 plus four weeks of holiday pay (384,000)

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		WageType:   WageHourly,
		HourlyRate: won(12_000),
		Shifts:     weekdayShifts(t, jan2026, 1),
	})
	require.NoError(t, err)

	assert.Nil(t, res.Absence, "absence applies to monthly wages only")
	assertWon(t, 12_000, res.HourlyWage)
	assertWon(t, 2_016_000, res.BaseSalary)
	assertWon(t, 384_000, res.WeeklyHoliday.WeeklyHolidayPay)
	assertWon(t, 2_400_000, res.TotalGross)
	assertWon(t, 227_053, res.Insurance.Total())
	assert.Empty(t, res.AppliedWageMode)
}

func TestSalary_HourlyOvertimeHoursStayInBase(t *testing.T) {
	// GIVEN: 12,000 won/h and one 10 hour Monday
	// THEN: The base pays all 10 hours and the 2 hours over the daily
	//       limit earn the 1.5x overtime premium on top

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		WageType:   WageHourly,
		HourlyRate: won(12_000),
		Shifts:     []payroll.WorkShift{workShift(t, jan(5), "09:00", "20:00", 60, false)},
	})
	require.NoError(t, err)

	assertWon(t, 120_000, res.BaseSalary)
	assert.Equal(t, 120, res.Overtime.OvertimeHours.TotalMinutes())
	assertWon(t, 36_000, res.Overtime.OvertimePay)
	assertWon(t, 0, res.WeeklyHoliday.WeeklyHolidayPay)
}

func TestSalary_HourlyHolidayHoursPaidAsPremium(t *testing.T) {
	shifts := append(weekdayShifts(t, jan2026, 1), workShift(t, jan(1), "09:00", "18:00", 60, true))

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		WageType:   WageHourly,
		HourlyRate: won(12_000),
		Shifts:     shifts,
	})
	require.NoError(t, err)

	assertWon(t, 2_016_000, res.BaseSalary, "holiday hours are not base hours")
	assertWon(t, 144_000, res.Overtime.HolidayPay)
}

func TestSalary_ContractGuarantee(t *testing.T) {
	calc := salaryCalc(t)
	in := SalaryInput{
		Employee:   employee(t),
		WageType:   WageHourly,
		HourlyRate: won(12_000),
		Shifts:     weekdayShifts(t, jan2026, 1),
	}

	// GIVEN: Actual pay 2,400,000 under a 2,500,000 contract
	// THEN: The shortfall is paid as a guarantee allowance
	in.ContractMonthlySalary = won(2_500_000)
	res, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, AppliedContractSalary, res.AppliedWageMode)
	assertWon(t, 100_000, res.ContractGuaranteeAllowance)
	assertWon(t, 2_500_000, res.TotalGross)
	assertWon(t, 236_514, res.Insurance.Total())

	// GIVEN: Actual pay above the contract
	in.ContractMonthlySalary = won(2_300_000)
	res, err = calc.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, AppliedActualCalculation, res.AppliedWageMode)
	assertWon(t, 100_000, res.ContractDifference)
	assertWon(t, 0, res.ContractGuaranteeAllowance)
	assertWon(t, 2_400_000, res.TotalGross)
}

func TestSalary_InclusiveWage(t *testing.T) {
	// GIVEN: A Saturday of overtime and a fixed 20,000 won x 10h scheme
	// THEN: Shift overtime pay is replaced by the fixed 200,000

	shifts := append(weekdayShifts(t, jan2026, 1), workShift(t, jan(10), "09:00", "18:00", 60, false))
	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t),
		BaseSalary: won(2_800_000),
		Shifts:     shifts,
		Inclusive: InclusiveWageOptions{
			Enabled:               true,
			FixedOvertimeRate:     won(20_000),
			ExpectedOvertimeHours: decimal.NewFromInt(10),
		},
	})
	require.NoError(t, err)

	assertWon(t, 0, res.Overtime.OvertimePay)
	assert.Equal(t, 480, res.Overtime.OvertimeHours.TotalMinutes())
	assertWon(t, 200_000, res.InclusiveOvertimePay)
	assertWon(t, 3_514_944, res.TotalGross)
}

func TestSalary_NetPayIdentity(t *testing.T) {
	meal, err := payroll.MealAllowance(won(200_000))
	require.NoError(t, err)
	shifts := append(weekdayShifts(t, jan2026, 1, 20),
		workShift(t, jan(6), "18:00", "23:30", 30, false),
		workShift(t, jan(1), "10:00", "16:00", 0, true),
	)

	res, err := salaryCalc(t).Calculate(SalaryInput{
		Employee:   employee(t, withDependents(3, 1)),
		BaseSalary: won(3_100_000),
		Allowances: []payroll.Allowance{meal},
		Shifts:     shifts,
	})
	require.NoError(t, err)

	gross := payroll.Sum(res.BaseSalary, won(200_000), res.Overtime.Total(), res.WeeklyHoliday.WeeklyHolidayPay)
	assert.True(t, gross.Equal(res.TotalGross))
	assert.True(t, res.TotalGross.Sub(res.TotalDeductions).Equal(res.NetPay))
	assert.True(t, res.Insurance.Total().Add(res.Tax.Total()).Equal(res.TotalDeductions))
}

func TestSalary_InvalidInput(t *testing.T) {
	calc := salaryCalc(t)

	_, err := calc.Calculate(SalaryInput{Employee: employee(t), WageType: "DAILY"})
	assert.True(t, errors.Is(err, ErrUnknownWageType))
	assert.True(t, IsClientError(err))

	_, err = calc.Calculate(SalaryInput{BaseSalary: won(1)})
	var ve *payroll.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "employee", ve.Field)

	_, err = calc.Calculate(SalaryInput{Employee: employee(t), BaseSalary: won(-1)})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "base_salary", ve.Field)

	_, err = calc.Calculate(SalaryInput{Employee: employee(t), HoursMode: "180"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "hours_mode", ve.Field)
}
