package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func table2026(t *testing.T) *rates.Table {
	t.Helper()
	tbl, err := rates.Default().Table(2026)
	require.NoError(t, err)
	return tbl
}

func won(n int64) payroll.Money { return payroll.NewMoney(n) }

func assertWon(t *testing.T, want int64, got payroll.Money, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.Int64(), msgAndArgs...)
}

type empOpt func(*payroll.EmployeeParams)

func withDays(n int) empOpt { return func(p *payroll.EmployeeParams) { p.ScheduledWorkDays = n } }

func withSize(s payroll.CompanySize) empOpt {
	return func(p *payroll.EmployeeParams) { p.CompanySize = s }
}

func withDependents(deps, children int) empOpt {
	return func(p *payroll.EmployeeParams) { p.DependentsCount, p.ChildrenUnder20 = deps, children }
}

func employee(t *testing.T, opts ...empOpt) payroll.Employee {
	t.Helper()
	p := payroll.EmployeeParams{Name: "Kim Minsu", DependentsCount: 1}
	for _, o := range opts {
		o(&p)
	}
	emp, err := payroll.NewEmployee(p)
	require.NoError(t, err)
	return emp
}

// workShift builds a shift on date from "HH:MM" times.
func workShift(t *testing.T, date time.Time, start, end string, breakMin int, holiday bool) payroll.WorkShift {
	t.Helper()
	s, err := payroll.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := payroll.ParseTimeOfDay(end)
	require.NoError(t, err)
	ws, err := payroll.NewWorkShift(payroll.WorkShiftParams{
		Date:          date,
		Start:         s,
		End:           e,
		BreakMinutes:  breakMin,
		IsHolidayWork: holiday,
	})
	require.NoError(t, err)
	return ws
}

// weekdayShifts returns a 09:00-18:00 shift with a 60 minute break (8h) for
// every Monday-Friday of month, except the listed days of the month.
func weekdayShifts(t *testing.T, month payroll.Month, skip ...int) []payroll.WorkShift {
	t.Helper()
	skipped := make(map[int]bool, len(skip))
	for _, d := range skip {
		skipped[d] = true
	}
	var out []payroll.WorkShift
	for _, d := range month.Days() {
		if payroll.IsoWeekday(d) > 5 || skipped[d.Day()] {
			continue
		}
		out = append(out, workShift(t, d, "09:00", "18:00", 60, false))
	}
	return out
}

var (
	jan2026 = payroll.Month{Year: 2026, Month: time.January}
	feb2026 = payroll.Month{Year: 2026, Month: time.February}
)

func jan(day int) time.Time { return payroll.Date(2026, time.January, day) }
