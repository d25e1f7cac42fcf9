package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// ABSENCE - Deductions for missed scheduled days (monthly wage only)
// =============================================================================

type AbsenceInput struct {
	Shifts            []payroll.WorkShift
	ScheduledWorkDays int
	Month             payroll.Month
	BaseSalary        payroll.Money
	Policy            AbsencePolicy
	CompanySize       payroll.CompanySize
	// HourlyWage prices the lost weekly holiday pay. Zero means unknown, in
	// which case no holiday pay loss is deducted.
	HourlyWage payroll.Money
}

type AbsenceResult struct {
	ScheduledDays  int
	ActualWorkDays int
	AbsentDays     int
	AbsentWeeks    int // ISO weeks with at least one missed scheduled day
	DailyWage      payroll.Money
	WageDeduction  payroll.Money
	HolidayPayLoss payroll.Money
	TotalDeduction payroll.Money
	Policy         AbsencePolicy
}

type AbsenceCalculator struct {
	calendar   payroll.HolidayCalendar
	dailyHours decimal.Decimal
}

// NewAbsenceCalculator uses calendar to drop public holidays from the
// scheduled days. A nil calendar has no holidays.
func NewAbsenceCalculator(table *rates.Table, calendar payroll.HolidayCalendar) *AbsenceCalculator {
	if calendar == nil {
		calendar = payroll.NoHolidays{}
	}
	return &AbsenceCalculator{
		calendar:   calendar,
		dailyHours: hoursDecimal(table.WorkingTime.DailyRegularHours),
	}
}

// Calculate compares the month's scheduled days with the days worked.
//
// Scheduled days are the month's first ScheduledWorkDays weekdays of each
// week (Monday first) that are not paid holidays for the company size.
// The daily wage is base / scheduled days. STRICT deducts daily wage x absent
// days plus one week of holiday pay (hourly x 8h) per week with an absence;
// MODERATE deducts only the latter; LENIENT nothing.
func (c *AbsenceCalculator) Calculate(in AbsenceInput) (AbsenceResult, error) {
	if in.Month.IsZero() {
		return AbsenceResult{}, ErrInvalidMonth
	}
	policy := in.Policy
	if policy == "" {
		policy = AbsenceStrict
	}
	if !policy.Valid() {
		return AbsenceResult{}, &payroll.ValidationError{Field: "absence_policy", Reason: fmt.Sprintf("unknown value %q", in.Policy)}
	}

	scheduled := c.scheduledDates(in.Month, in.ScheduledWorkDays, in.CompanySize)
	worked := make(map[time.Time]bool)
	for _, s := range in.Shifts {
		if !s.IsHolidayWork() && scheduled[s.Date()] {
			worked[s.Date()] = true
		}
	}

	res := AbsenceResult{
		ScheduledDays:  len(scheduled),
		ActualWorkDays: len(worked),
		DailyWage:      payroll.Zero(),
		WageDeduction:  payroll.Zero(),
		HolidayPayLoss: payroll.Zero(),
		Policy:         policy,
	}
	res.AbsentDays = max(0, res.ScheduledDays-res.ActualWorkDays)
	res.AbsentWeeks = absentWeeks(scheduled, worked)

	if res.ScheduledDays > 0 {
		daily, err := in.BaseSalary.Div(decimal.NewFromInt(int64(res.ScheduledDays)))
		if err != nil {
			return AbsenceResult{}, err
		}
		res.DailyWage = daily.RoundToWon()
	}

	if policy != AbsenceLenient && res.AbsentDays > 0 {
		if policy == AbsenceStrict {
			res.WageDeduction = res.DailyWage.MulInt(int64(res.AbsentDays)).RoundToWon()
		}
		if in.HourlyWage.IsPositive() && res.AbsentWeeks > 0 {
			weekly := in.HourlyWage.Mul(c.dailyHours).RoundToWon()
			res.HolidayPayLoss = weekly.MulInt(int64(res.AbsentWeeks)).RoundToWon()
		}
	}
	res.TotalDeduction = res.WageDeduction.Add(res.HolidayPayLoss)
	return res, nil
}

func (c *AbsenceCalculator) scheduledDates(month payroll.Month, scheduledDays int, size payroll.CompanySize) map[time.Time]bool {
	out := make(map[time.Time]bool)
	for _, d := range month.Days() {
		if payroll.IsoWeekday(d) > scheduledDays {
			continue
		}
		if c.calendar.IsHoliday(d, size) {
			continue
		}
		out[d] = true
	}
	return out
}

func absentWeeks(scheduled, worked map[time.Time]bool) int {
	missing := make(map[payroll.Week]bool)
	for d := range scheduled {
		if !worked[d] {
			missing[payroll.WeekOf(d)] = true
		}
	}
	return len(missing)
}
