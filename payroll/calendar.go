package payroll

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// DATES - Civil dates as time.Time at UTC midnight
// =============================================================================

// Date returns the civil date y-m-d at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock and zone of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("date", "expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// DaysBetween counts calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// IsoWeekday maps Monday=1 ... Sunday=7.
func IsoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// =============================================================================
// ISO WEEK - Grouping key for weekly rules
// =============================================================================

// Week identifies an ISO-8601 week (Monday start).
type Week struct {
	Year int
	Num  int
}

func WeekOf(t time.Time) Week {
	y, w := t.ISOWeek()
	return Week{Year: y, Num: w}
}

// Monday returns the first day of the week.
func (w Week) Monday() time.Time {
	// January 4th is always in ISO week 1.
	jan4 := Date(w.Year, time.January, 4)
	week1Monday := jan4.AddDate(0, 0, 1-IsoWeekday(jan4))
	return week1Monday.AddDate(0, 0, (w.Num-1)*7)
}

func (w Week) Less(o Week) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Num < o.Num
}

func (w Week) String() string { return fmt.Sprintf("%d-W%02d", w.Year, w.Num) }

// SortWeeks orders weeks chronologically.
func SortWeeks(weeks []Week) {
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Less(weeks[j]) })
}

// =============================================================================
// MONTH - Calculation period
// =============================================================================

// Month is a calendar month ("2026-01"). The zero value means "not given".
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, invalid("calculation_month", "expected YYYY-MM, got %q", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func MonthOf(t time.Time) Month { return Month{Year: t.Year(), Month: t.Month()} }

func (m Month) IsZero() bool { return m.Year == 0 }

func (m Month) First() time.Time { return Date(m.Year, m.Month, 1) }

func (m Month) Last() time.Time { return m.First().AddDate(0, 1, -1) }

func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Days returns every date of the month in order.
func (m Month) Days() []time.Time {
	var days []time.Time
	for d := m.First(); m.Contains(d); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// =============================================================================
// HOLIDAY CALENDAR - Public holidays for the calculation year
// =============================================================================

// Holiday is a public holiday. AllCompanySizes marks holidays that are paid
// rest days for every workplace (Labor Day); the rest only bind workplaces
// with five or more employees.
type Holiday struct {
	ID              string
	Date            time.Time
	Name            string
	AllCompanySizes bool
}

// HolidayCalendar provides holiday lookup. Implementations are read-only
// after construction and safe for concurrent use.
type HolidayCalendar interface {
	// IsHoliday reports whether date is a paid holiday for a workplace of the given size.
	IsHoliday(date time.Time, size CompanySize) bool

	// Holidays returns every holiday of the year, ordered by date.
	Holidays(year int) []Holiday
}

// NoHolidays is a calendar without holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time, CompanySize) bool { return false }
func (NoHolidays) Holidays(int) []Holiday                { return nil }

// HolidayApplies reports whether h is a paid holiday for a workplace of size.
func HolidayApplies(h Holiday, size CompanySize) bool {
	return h.AllCompanySizes || size == CompanyOver5
}

// =============================================================================
// TIME OF DAY - Shift boundaries
// =============================================================================

// TimeOfDay is a wall-clock time as minutes after midnight, in [0, 1440).
type TimeOfDay int

const minutesPerDay = 24 * 60

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, invalid("time", "hour out of range: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return 0, invalid("time", "minute out of range: %d", minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay is NewTimeOfDay for literals known to be valid.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay parses "HH:MM" (or "HH:MM:SS", seconds ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute())
		}
	}
	return 0, invalid("time", "expected HH:MM, got %q", s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }
