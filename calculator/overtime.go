package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// OVERTIME - Overtime, night and holiday premiums
// =============================================================================

// OvertimeResult holds the three premium pays. Each is rounded on its own.
type OvertimeResult struct {
	OvertimeHours payroll.WorkingHours
	NightHours    payroll.WorkingHours
	HolidayHours  payroll.WorkingHours
	OvertimePay   payroll.Money
	NightPay      payroll.Money
	HolidayPay    payroll.Money
	HourlyWage    payroll.Money
}

func (r OvertimeResult) Total() payroll.Money {
	return payroll.Sum(r.OvertimePay, r.NightPay, r.HolidayPay)
}

type OvertimeCalculator struct {
	premiums     rates.PremiumRates
	dailyMinutes int
	weeklyHours  int
}

func NewOvertimeCalculator(table *rates.Table) *OvertimeCalculator {
	return &OvertimeCalculator{
		premiums:     table.Premiums,
		dailyMinutes: table.WorkingTime.DailyRegularHours * 60,
		weeklyHours:  table.WorkingTime.WeeklyRegularHours,
	}
}

// Calculate computes the month's premiums at the given hourly wage.
//
// Overtime is settled per ISO week. Within a week the non-holiday shifts are
// taken in date order: the first scheduledDays shifts count up to 8h each and
// any excess is overtime; every later shift is overtime in full. In-schedule
// time above min(scheduledDays x 8h, 40h) is overtime as well.
//
// Night pay is a 0.5x premium on every minute in 22:00-06:00, since the base
// hour is already paid. Holiday work pays 1.5x; at OVER_5 workplaces the
// hours beyond 8 in a holiday shift pay 2.0x.
func (c *OvertimeCalculator) Calculate(shifts []payroll.WorkShift, hourly payroll.Money, size payroll.CompanySize, scheduledDays int) OvertimeResult {
	overtime := 0
	for _, m := range c.WeeklyOvertimeMinutes(shifts, scheduledDays) {
		overtime += m
	}
	overtimeHours := payroll.MinutesOf(overtime)

	night := 0
	for _, s := range shifts {
		night += s.NightHours().TotalMinutes()
	}
	nightHours := payroll.MinutesOf(night)

	holidayHours, holidayPay := c.holidayWork(shifts, hourly, size)

	return OvertimeResult{
		OvertimeHours: overtimeHours,
		NightHours:    nightHours,
		HolidayHours:  holidayHours,
		OvertimePay:   payFor(hourly, overtimeHours, c.premiums.Overtime),
		NightPay:      payFor(hourly, nightHours, c.premiums.Night),
		HolidayPay:    holidayPay,
		HourlyWage:    hourly,
	}
}

// WeeklyOvertimeMinutes applies the weekly overtime rule and reports the
// overtime minutes of each ISO week that has non-holiday shifts.
func (c *OvertimeCalculator) WeeklyOvertimeMinutes(shifts []payroll.WorkShift, scheduledDays int) map[payroll.Week]int {
	weeklyLimit := scheduledDays * c.dailyMinutes
	if capMinutes := c.weeklyHours * 60; weeklyLimit > capMinutes {
		weeklyLimit = capMinutes
	}

	byWeek := make(map[payroll.Week][]payroll.WorkShift)
	for _, s := range shifts {
		if s.IsHolidayWork() {
			continue
		}
		w := payroll.WeekOf(s.Date())
		byWeek[w] = append(byWeek[w], s)
	}

	out := make(map[payroll.Week]int, len(byWeek))
	for w, week := range byWeek {
		sort.SliceStable(week, func(i, j int) bool { return week[i].Date().Before(week[j].Date()) })

		inSchedule, excess := 0, 0
		for i, s := range week {
			minutes := s.WorkingHours().TotalMinutes()
			switch {
			case i >= scheduledDays:
				excess += minutes
			case minutes > c.dailyMinutes:
				inSchedule += c.dailyMinutes
				excess += minutes - c.dailyMinutes
			default:
				inSchedule += minutes
			}
		}
		if inSchedule > weeklyLimit {
			excess += inSchedule - weeklyLimit
		}
		out[w] = excess
	}
	return out
}

func (c *OvertimeCalculator) holidayWork(shifts []payroll.WorkShift, hourly payroll.Money, size payroll.CompanySize) (payroll.WorkingHours, payroll.Money) {
	limit := decimal.NewFromInt(int64(c.dailyMinutes / 60))

	minutes := 0
	pay := payroll.Zero()
	for _, s := range shifts {
		if !s.IsHolidayWork() {
			continue
		}
		worked := s.WorkingHours()
		minutes += worked.TotalMinutes()

		h := worked.DecimalHours()
		if size == payroll.CompanyOver5 && h.GreaterThan(limit) {
			regular := hourly.Mul(limit).Mul(c.premiums.Holiday)
			extended := hourly.Mul(h.Sub(limit)).Mul(c.premiums.HolidayExtended)
			pay = pay.Add(regular.Add(extended).RoundToWon())
			continue
		}
		pay = pay.Add(hourly.Mul(h).Mul(c.premiums.Holiday).RoundToWon())
	}
	return payroll.MinutesOf(minutes), pay
}
