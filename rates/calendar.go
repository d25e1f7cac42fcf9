package rates

import (
	"sort"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// Calendar is the public holiday calendar of a Book. It implements
// payroll.HolidayCalendar.
type Calendar struct {
	byDate map[time.Time]payroll.Holiday
	byYear map[int][]payroll.Holiday
}

// NewCalendar indexes holidays by date. Later entries for the same date win.
func NewCalendar(holidays []payroll.Holiday) *Calendar {
	c := &Calendar{
		byDate: make(map[time.Time]payroll.Holiday, len(holidays)),
		byYear: make(map[int][]payroll.Holiday),
	}
	for _, h := range holidays {
		h.Date = payroll.DateOf(h.Date)
		c.byDate[h.Date] = h
	}
	for _, h := range c.byDate {
		c.byYear[h.Date.Year()] = append(c.byYear[h.Date.Year()], h)
	}
	for y := range c.byYear {
		sortHolidays(c.byYear[y])
	}
	return c
}

// Calendar builds the holiday calendar over every year in the book.
func (b *Book) Calendar() *Calendar {
	var all []payroll.Holiday
	for _, y := range b.years {
		all = append(all, b.tables[y].Holidays...)
	}
	return NewCalendar(all)
}

func (c *Calendar) IsHoliday(date time.Time, size payroll.CompanySize) bool {
	h, ok := c.byDate[payroll.DateOf(date)]
	return ok && payroll.HolidayApplies(h, size)
}

func (c *Calendar) Holidays(year int) []payroll.Holiday {
	src := c.byYear[year]
	out := make([]payroll.Holiday, len(src))
	copy(out, src)
	return out
}

func sortHolidays(hs []payroll.Holiday) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
}
