package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKING HOURS - Hours + minutes pair
// =============================================================================

var sixty = decimal.NewFromInt(60)

// WorkingHours is a non-negative duration kept as whole hours and minutes
// (minutes in [0,59]). Arithmetic normalizes overflowing minutes into hours.
type WorkingHours struct {
	hours   int
	minutes int
}

func NewWorkingHours(hours, minutes int) (WorkingHours, error) {
	if hours < 0 {
		return WorkingHours{}, invalid("hours", "cannot be negative: %d", hours)
	}
	if minutes < 0 || minutes >= 60 {
		return WorkingHours{}, invalid("minutes", "must be between 0 and 59: %d", minutes)
	}
	return WorkingHours{hours: hours, minutes: minutes}, nil
}

// WorkingHoursFromMinutes splits a minute count into hours and minutes.
func WorkingHoursFromMinutes(total int) (WorkingHours, error) {
	if total < 0 {
		return WorkingHours{}, fmt.Errorf("%w: %d minutes", ErrNegativeHours, total)
	}
	return WorkingHours{hours: total / 60, minutes: total % 60}, nil
}

// WorkingHoursFromDecimal converts fractional hours, truncating to whole
// minutes: 8.5 -> 8h30m, 1.999 -> 1h59m.
func WorkingHoursFromDecimal(h decimal.Decimal) (WorkingHours, error) {
	return WorkingHoursFromMinutes(int(h.Mul(sixty).IntPart()))
}

// MinutesOf builds WorkingHours from a minute count, clamping negatives to zero.
// Calculators use it for sums of shift durations, which cannot be negative.
func MinutesOf(total int) WorkingHours {
	if total < 0 {
		total = 0
	}
	return WorkingHours{hours: total / 60, minutes: total % 60}
}

func (w WorkingHours) Hours() int   { return w.hours }
func (w WorkingHours) Minutes() int { return w.minutes }

// TotalMinutes returns hours*60 + minutes.
func (w WorkingHours) TotalMinutes() int { return w.hours*60 + w.minutes }

// DecimalHours returns hours + minutes/60, e.g. 8h30m -> 8.5.
func (w WorkingHours) DecimalHours() decimal.Decimal {
	return decimal.NewFromInt(int64(w.hours)).Add(decimal.NewFromInt(int64(w.minutes)).Div(sixty))
}

func (w WorkingHours) Add(o WorkingHours) WorkingHours {
	return MinutesOf(w.TotalMinutes() + o.TotalMinutes())
}

func (w WorkingHours) Sub(o WorkingHours) (WorkingHours, error) {
	diff := w.TotalMinutes() - o.TotalMinutes()
	if diff < 0 {
		return WorkingHours{}, fmt.Errorf("%w: %s - %s", ErrNegativeHours, w, o)
	}
	return MinutesOf(diff), nil
}

// Mul scales the duration, truncating to whole minutes: 10h * 1.5 = 15h.
func (w WorkingHours) Mul(factor decimal.Decimal) (WorkingHours, error) {
	return WorkingHoursFromMinutes(int(decimal.NewFromInt(int64(w.TotalMinutes())).Mul(factor).IntPart()))
}

func (w WorkingHours) LessThan(o WorkingHours) bool    { return w.TotalMinutes() < o.TotalMinutes() }
func (w WorkingHours) LessOrEqual(o WorkingHours) bool { return w.TotalMinutes() <= o.TotalMinutes() }
func (w WorkingHours) GreaterThan(o WorkingHours) bool { return w.TotalMinutes() > o.TotalMinutes() }

func (w WorkingHours) GreaterOrEqual(o WorkingHours) bool {
	return w.TotalMinutes() >= o.TotalMinutes()
}

func (w WorkingHours) IsZero() bool { return w.hours == 0 && w.minutes == 0 }

func (w WorkingHours) String() string {
	if w.minutes == 0 {
		return fmt.Sprintf("%dh", w.hours)
	}
	return fmt.Sprintf("%dh%02dm", w.hours, w.minutes)
}
