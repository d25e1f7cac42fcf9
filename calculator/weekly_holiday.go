package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// WEEKLY HOLIDAY PAY (주휴수당) - Paid rest day for a week of attendance
// =============================================================================

// WeeklyHolidayPayResult reports the month's weekly holiday pay.
// AverageWeeklyHours is measured over the span of the non-holiday shifts.
type WeeklyHolidayPayResult struct {
	WeeklyHolidayPay   payroll.Money
	AverageWeeklyHours payroll.WorkingHours
	HoursPerWeek       decimal.Decimal // paid holiday hours per qualifying week
	QualifyingWeeks    int
	EvaluatedWeeks     int // weeks with at least the statutory minimum of work
	HourlyWage         payroll.Money
	IsProportional     bool // average below the 40h full-time week
}

type WeeklyHolidayPayCalculator struct {
	dailyHours  decimal.Decimal
	fullWeek    decimal.Decimal
	minWeek     decimal.Decimal
	minWeekMins int
}

func NewWeeklyHolidayPayCalculator(table *rates.Table) *WeeklyHolidayPayCalculator {
	wt := table.WorkingTime
	return &WeeklyHolidayPayCalculator{
		dailyHours:  hoursDecimal(wt.DailyRegularHours),
		fullWeek:    hoursDecimal(wt.WeeklyRegularHours),
		minWeek:     hoursDecimal(wt.WeeklyHolidayMinHours),
		minWeekMins: wt.WeeklyHolidayMinHours * 60,
	}
}

// Calculate pays one week's holiday hours for every qualifying ISO week.
//
// Below a 15h average week nothing is due. Otherwise a week qualifies when it
// has at least 15h of non-holiday work and the employee worked every
// contracted weekday of that week that falls in the month. Each qualifying
// week pays 8h at a 40h average, or avg/40 x 8h below it.
func (c *WeeklyHolidayPayCalculator) Calculate(shifts []payroll.WorkShift, hourly payroll.Money, scheduledDays int) WeeklyHolidayPayResult {
	avg := c.averageWeeklyHours(shifts)
	avgHours := avg.DecimalHours()

	res := WeeklyHolidayPayResult{
		WeeklyHolidayPay:   payroll.Zero(),
		AverageWeeklyHours: avg,
		HoursPerWeek:       decimal.Zero,
		HourlyWage:         hourly,
		IsProportional:     avgHours.LessThan(c.fullWeek),
	}
	if avgHours.LessThan(c.minWeek) {
		return res
	}

	res.QualifyingWeeks, res.EvaluatedWeeks = c.qualifyingWeeks(shifts, scheduledDays)
	if res.QualifyingWeeks == 0 {
		return res
	}

	res.HoursPerWeek = c.dailyHours
	if res.IsProportional {
		res.HoursPerWeek = avgHours.Div(c.fullWeek).Mul(c.dailyHours)
	}
	res.WeeklyHolidayPay = hourly.Mul(res.HoursPerWeek).MulInt(int64(res.QualifyingWeeks)).RoundToWon()
	return res
}

// ProportionalRate is the share of a full weekly holiday due for the given
// weekly hours: 1 at 40h or more, 0 below 15h, hours/40 between.
func (c *WeeklyHolidayPayCalculator) ProportionalRate(weeklyHours decimal.Decimal) decimal.Decimal {
	if weeklyHours.GreaterThanOrEqual(c.fullWeek) {
		return decimal.NewFromInt(1)
	}
	if weeklyHours.LessThan(c.minWeek) {
		return decimal.Zero
	}
	return weeklyHours.Div(c.fullWeek)
}

// averageWeeklyHours divides the non-holiday minutes by the number of weeks
// spanned from the first to the last shift (at least one), rounding half-up
// to the minute.
func (c *WeeklyHolidayPayCalculator) averageWeeklyHours(shifts []payroll.WorkShift) payroll.WorkingHours {
	var first, last time.Time
	total := 0
	for _, s := range shifts {
		if s.IsHolidayWork() {
			continue
		}
		total += s.WorkingHours().TotalMinutes()
		if first.IsZero() || s.Date().Before(first) {
			first = s.Date()
		}
		if last.IsZero() || s.Date().After(last) {
			last = s.Date()
		}
	}
	if first.IsZero() {
		return payroll.MinutesOf(0)
	}

	days := payroll.DaysBetween(first, last) + 1
	weeks := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(7))
	if weeks.LessThan(decimal.NewFromInt(1)) {
		weeks = decimal.NewFromInt(1)
	}
	avg := decimal.NewFromInt(int64(total)).Div(weeks).Round(0)
	return payroll.MinutesOf(int(avg.IntPart()))
}

func (c *WeeklyHolidayPayCalculator) qualifyingWeeks(shifts []payroll.WorkShift, scheduledDays int) (qualifying, evaluated int) {
	dates := make(map[payroll.Week]map[time.Time]bool)
	minutes := make(map[payroll.Week]int)
	perMonth := make(map[payroll.Month]int)

	for _, s := range shifts {
		if s.IsHolidayWork() {
			continue
		}
		w := payroll.WeekOf(s.Date())
		if dates[w] == nil {
			dates[w] = make(map[time.Time]bool)
		}
		dates[w][s.Date()] = true
		minutes[w] += s.WorkingHours().TotalMinutes()
		perMonth[payroll.MonthOf(s.Date())]++
	}
	if len(dates) == 0 {
		return 0, 0
	}
	main := mainMonth(perMonth)

	weeks := make([]payroll.Week, 0, len(dates))
	for w := range dates {
		weeks = append(weeks, w)
	}
	payroll.SortWeeks(weeks)

	for _, w := range weeks {
		if minutes[w] < c.minWeekMins {
			continue
		}
		evaluated++

		possible := 0
		monday := w.Monday()
		for i := 0; i < 7; i++ {
			d := monday.AddDate(0, 0, i)
			if payroll.IsoWeekday(d) <= scheduledDays && main.Contains(d) {
				possible++
			}
		}
		required := possible
		if scheduledDays < required {
			required = scheduledDays
		}
		if len(dates[w]) >= required {
			qualifying++
		}
	}
	return qualifying, evaluated
}

// mainMonth is the month with the most shifts; ties go to the earliest.
func mainMonth(counts map[payroll.Month]int) payroll.Month {
	months := make([]payroll.Month, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].First().Before(months[j].First()) })

	best := months[0]
	for _, m := range months[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}
