package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// ABSENCE
// =============================================================================

func absenceCalc(t *testing.T) *AbsenceCalculator {
	return NewAbsenceCalculator(table2026(t), rates.Default().Calendar())
}

func TestAbsence_Policies(t *testing.T) {
	// GIVEN: January with Wednesday the 14th missed (New Year's Day is a holiday)
	// WHEN: Each policy is applied to a 2,800,000 base at 16,092 won/h
	// THEN: STRICT = daily wage + one week of holiday pay; MODERATE = the
	//       holiday pay only; LENIENT = nothing

	shifts := weekdayShifts(t, jan2026, 1, 14)

	tests := []struct {
		policy AbsencePolicy
		wage   int64
		loss   int64
	}{
		{AbsenceStrict, 133_333, 128_736},
		{AbsenceModerate, 0, 128_736},
		{AbsenceLenient, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			res, err := absenceCalc(t).Calculate(AbsenceInput{
				Shifts:            shifts,
				ScheduledWorkDays: 5,
				Month:             jan2026,
				BaseSalary:        won(2_800_000),
				Policy:            tt.policy,
				CompanySize:       payroll.CompanyOver5,
				HourlyWage:        won(16_092),
			})
			require.NoError(t, err)

			assert.Equal(t, 21, res.ScheduledDays)
			assert.Equal(t, 20, res.ActualWorkDays)
			assert.Equal(t, 1, res.AbsentDays)
			assert.Equal(t, 1, res.AbsentWeeks)
			assertWon(t, 133_333, res.DailyWage)
			assertWon(t, tt.wage, res.WageDeduction)
			assertWon(t, tt.loss, res.HolidayPayLoss)
			assertWon(t, tt.wage+tt.loss, res.TotalDeduction)
		})
	}
}

func TestAbsence_FullWeekMissed(t *testing.T) {
	// GIVEN: January with the whole week of the 12th to the 16th missed
	// WHEN: Each policy is applied to a 2,800,000 base at 16,092 won/h
	// THEN: STRICT deducts five daily wages and that week's holiday pay;
	//       the week counts once

	shifts := weekdayShifts(t, jan2026, 1, 12, 13, 14, 15, 16)

	tests := []struct {
		policy AbsencePolicy
		wage   int64
		loss   int64
	}{
		{AbsenceStrict, 666_665, 128_736},
		{AbsenceModerate, 0, 128_736},
		{AbsenceLenient, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			res, err := absenceCalc(t).Calculate(AbsenceInput{
				Shifts:            shifts,
				ScheduledWorkDays: 5,
				Month:             jan2026,
				BaseSalary:        won(2_800_000),
				Policy:            tt.policy,
				CompanySize:       payroll.CompanyOver5,
				HourlyWage:        won(16_092),
			})
			require.NoError(t, err)

			assert.Equal(t, 16, res.ActualWorkDays)
			assert.Equal(t, 5, res.AbsentDays)
			assert.Equal(t, 1, res.AbsentWeeks)
			assertWon(t, tt.wage, res.WageDeduction)
			assertWon(t, tt.loss, res.HolidayPayLoss)
			assertWon(t, tt.wage+tt.loss, res.TotalDeduction)
		})
	}
}

func TestAbsence_FullAttendance(t *testing.T) {
	res, err := absenceCalc(t).Calculate(AbsenceInput{
		Shifts:            weekdayShifts(t, jan2026, 1),
		ScheduledWorkDays: 5,
		Month:             jan2026,
		BaseSalary:        won(2_800_000),
		CompanySize:       payroll.CompanyOver5,
		HourlyWage:        won(16_092),
	})
	require.NoError(t, err)

	assert.Equal(t, AbsenceStrict, res.Policy, "empty policy defaults to STRICT")
	assert.Zero(t, res.AbsentDays)
	assertWon(t, 0, res.TotalDeduction)
}

func TestAbsence_HolidaysByCompanySize(t *testing.T) {
	// GIVEN: May 2026 has Labor Day (1st, every workplace), Children's Day
	//        (5th) and a substitute holiday (25th) on weekdays
	// THEN: OVER_5 schedules 18 days, UNDER_5 keeps all but Labor Day (20)

	may := payroll.Month{Year: 2026, Month: time.May}
	calc := absenceCalc(t)

	large, err := calc.Calculate(AbsenceInput{
		ScheduledWorkDays: 5, Month: may, BaseSalary: won(2_000_000),
		Policy: AbsenceLenient, CompanySize: payroll.CompanyOver5,
	})
	require.NoError(t, err)
	assert.Equal(t, 18, large.ScheduledDays)
	assertWon(t, 111_111, large.DailyWage)

	small, err := calc.Calculate(AbsenceInput{
		ScheduledWorkDays: 5, Month: may, BaseSalary: won(2_000_000),
		Policy: AbsenceLenient, CompanySize: payroll.CompanyUnder5,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, small.ScheduledDays)
	assertWon(t, 100_000, small.DailyWage)
}

func TestAbsence_UnknownHourlyWageHasNoHolidayLoss(t *testing.T) {
	res, err := absenceCalc(t).Calculate(AbsenceInput{
		Shifts:            weekdayShifts(t, jan2026, 1, 14),
		ScheduledWorkDays: 5,
		Month:             jan2026,
		BaseSalary:        won(2_800_000),
		Policy:            AbsenceModerate,
		CompanySize:       payroll.CompanyOver5,
	})
	require.NoError(t, err)
	assertWon(t, 0, res.TotalDeduction)
}

func TestAbsence_InvalidInput(t *testing.T) {
	calc := absenceCalc(t)

	_, err := calc.Calculate(AbsenceInput{ScheduledWorkDays: 5, BaseSalary: won(1)})
	assert.True(t, errors.Is(err, ErrInvalidMonth))

	_, err = calc.Calculate(AbsenceInput{ScheduledWorkDays: 5, Month: jan2026, Policy: "HARSH"})
	var ve *payroll.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "absence_policy", ve.Field)
}
