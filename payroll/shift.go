package payroll

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// WORK SHIFT - One day of work
// =============================================================================

// Night work window: [22:00, 06:00).
const (
	NightStart = TimeOfDay(22 * 60)
	NightEnd   = TimeOfDay(6 * 60)
)

// DailyRegularMinutes is the statutory 8-hour day.
const DailyRegularMinutes = 8 * 60

// WorkShift is a single worked day. An end time at or before the start time
// means the shift runs past midnight (22:00 -> 07:00 spans 9 hours; equal
// start and end spans a full 24 hours).
type WorkShift struct {
	id            uuid.UUID
	date          time.Time
	start         TimeOfDay
	end           TimeOfDay
	breakMinutes  int
	isHolidayWork bool
}

type WorkShiftParams struct {
	ID            uuid.UUID
	Date          time.Time
	Start         TimeOfDay
	End           TimeOfDay
	BreakMinutes  int
	IsHolidayWork bool
}

// NewWorkShift validates p. Break minutes must be non-negative and may not
// exceed the shift's span.
func NewWorkShift(p WorkShiftParams) (WorkShift, error) {
	if p.Date.IsZero() {
		return WorkShift{}, invalid("shift.date", "is required")
	}
	if p.Start < 0 || p.Start >= minutesPerDay {
		return WorkShift{}, invalid("shift.start_time", "out of range: %d", int(p.Start))
	}
	if p.End < 0 || p.End >= minutesPerDay {
		return WorkShift{}, invalid("shift.end_time", "out of range: %d", int(p.End))
	}
	if p.BreakMinutes < 0 {
		return WorkShift{}, invalid("shift.break_minutes", "cannot be negative: %d", p.BreakMinutes)
	}
	if span := spanMinutes(p.Start, p.End); p.BreakMinutes > span {
		return WorkShift{}, invalid("shift.break_minutes", "break (%d min) exceeds shift span (%d min)", p.BreakMinutes, span)
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return WorkShift{
		id:            id,
		date:          DateOf(p.Date),
		start:         p.Start,
		end:           p.End,
		breakMinutes:  p.BreakMinutes,
		isHolidayWork: p.IsHolidayWork,
	}, nil
}

func (s WorkShift) ID() uuid.UUID       { return s.id }
func (s WorkShift) Date() time.Time     { return s.date }
func (s WorkShift) Start() TimeOfDay    { return s.start }
func (s WorkShift) End() TimeOfDay      { return s.end }
func (s WorkShift) BreakMinutes() int   { return s.breakMinutes }
func (s WorkShift) IsHolidayWork() bool { return s.isHolidayWork }

// SpanMinutes is end - start including the break, rolling past midnight.
func (s WorkShift) SpanMinutes() int { return spanMinutes(s.start, s.end) }

// WorkingHours is the span minus the break.
func (s WorkShift) WorkingHours() WorkingHours {
	return MinutesOf(s.SpanMinutes() - s.breakMinutes)
}

// NightHours counts minutes of the span inside 22:00-06:00. Breaks are not
// subtracted: the break's position in the shift is unknown.
func (s WorkShift) NightHours() WorkingHours {
	night := 0
	span := s.SpanMinutes()
	for i := 0; i < span; i++ {
		if isNightMinute((int(s.start) + i) % minutesPerDay) {
			night++
		}
	}
	return MinutesOf(night)
}

func (s WorkShift) IsNightShift() bool { return !s.NightHours().IsZero() }

// DailyOvertime is the time worked beyond 8 hours on this day alone.
// Statutory overtime is settled per week by the overtime calculator.
func (s WorkShift) DailyOvertime() WorkingHours {
	return MinutesOf(s.WorkingHours().TotalMinutes() - DailyRegularMinutes)
}

func (s WorkShift) String() string {
	holiday := ""
	if s.isHolidayWork {
		holiday = ", holiday"
	}
	return fmt.Sprintf("WorkShift(%s %s-%s, break %dm%s)",
		s.date.Format("2006-01-02"), s.start, s.end, s.breakMinutes, holiday)
}

func spanMinutes(start, end TimeOfDay) int {
	if end <= start {
		return int(end) + minutesPerDay - int(start)
	}
	return int(end - start)
}

func isNightMinute(m int) bool {
	return m >= int(NightStart) || m < int(NightEnd)
}

// =============================================================================
// SHIFT SETS
// =============================================================================

// TotalWorkingHours sums working hours of shifts matching keep (nil keeps all).
func TotalWorkingHours(shifts []WorkShift, keep func(WorkShift) bool) WorkingHours {
	total := 0
	for _, s := range shifts {
		if keep == nil || keep(s) {
			total += s.WorkingHours().TotalMinutes()
		}
	}
	return MinutesOf(total)
}

// RegularShift keeps shifts that are not holiday work.
func RegularShift(s WorkShift) bool { return !s.isHolidayWork }

// HolidayShift keeps holiday-work shifts.
func HolidayShift(s WorkShift) bool { return s.isHolidayWork }
