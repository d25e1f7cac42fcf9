/*
Package rates holds the statutory payroll constants, indexed by year.

PURPOSE:
  Calculators never hard-code a rate. Minimum wage, insurance rates and caps,
  premium multipliers, working-time limits, the income tax withholding table
  and the public holiday list all come from a Table loaded once at start-up
  and never mutated afterwards.

YAML SCHEMA (statutory.yaml):
  years:
    - year: 2026
      minimum_wage: "10320"
      insurance:
        pension:        {rate: "0.045", min_base: "390000", max_base: "5900000"}
        health:         {rate: "0.03595"}
        long_term_care: {rate: "0.1295"}
        employment:     {rate: "0.009", max_base: "13500000"}
      premiums: {overtime: "1.5", night: "0.5", holiday: "1.5", holiday_extended: "2.0"}
      working_time: {daily_regular_hours: 8, weekly_regular_hours: 40, ...}
      tax:
        local_tax_rate: "0.1"
        max_dependents: 11
        brackets: [{min: 0, max: 1060000, tax: [0, 0, ...]}, ...]
      holidays: [{date: "2026-01-01", name: "New Year's Day"}, ...]

USAGE:
  book := rates.Default()            // embedded table
  book, err := rates.LoadFile(path)  // operator-supplied table
  table := book.Resolve(2026)
  cal := book.Calendar()             // payroll.HolidayCalendar

SEE ALSO:
  - calendar.go: Holiday calendar over every loaded year
  - calculator/: Consumers of Table
*/
package rates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payroll-engine/payroll"
)

//go:embed statutory.yaml
var statutoryYAML []byte

var (
	// ErrYearNotFound is returned when no table exists for the requested year.
	ErrYearNotFound = errors.New("no statutory rates for year")

	// ErrInvalidTable is returned when a rate document fails validation.
	ErrInvalidTable = errors.New("invalid statutory rate table")
)

// =============================================================================
// TABLE - One year of statutory constants
// =============================================================================

// Table is read-only after Load.
type Table struct {
	Year        int
	MinimumWage decimal.Decimal
	Insurance   InsuranceRates
	Premiums    PremiumRates
	WorkingTime WorkingTime
	Tax         TaxTable
	Holidays    []payroll.Holiday
}

type InsuranceRates struct {
	PensionRate    decimal.Decimal
	PensionMinBase decimal.Decimal
	PensionMaxBase decimal.Decimal
	HealthRate     decimal.Decimal
	// LongTermCareRate applies to the health insurance contribution, not to income.
	LongTermCareRate  decimal.Decimal
	EmploymentRate    decimal.Decimal
	EmploymentMaxBase decimal.Decimal
}

// PremiumRates are multipliers of the hourly wage.
type PremiumRates struct {
	Overtime        decimal.Decimal
	Night           decimal.Decimal
	Holiday         decimal.Decimal
	HolidayExtended decimal.Decimal // holiday hours beyond the daily limit, OVER_5 only
}

type WorkingTime struct {
	DailyRegularHours        int
	WeeklyRegularHours       int
	WeeklyMaxHours           int
	WeeklyOvertimeLimitHours int
	WeeklyHolidayMinHours    int
	WeeksPerMonth            decimal.Decimal
}

// TaxTable is the monthly simplified withholding table.
type TaxTable struct {
	LocalTaxRate  decimal.Decimal
	MaxDependents int
	Brackets      []TaxBracket
}

// TaxBracket covers monthly income in [Min, Max). Tax[i] is the income tax
// for i+1 effective dependents.
type TaxBracket struct {
	Min int64
	Max int64
	Tax []int64
}

// Lookup returns the withholding for a monthly income in won. Dependents are
// clamped to [1, MaxDependents]; income beyond the last bracket uses it.
func (t TaxTable) Lookup(income int64, dependents int) int64 {
	if len(t.Brackets) == 0 {
		return 0
	}
	if dependents < 1 {
		dependents = 1
	}
	if dependents > t.MaxDependents {
		dependents = t.MaxDependents
	}
	for _, b := range t.Brackets {
		if income >= b.Min && income < b.Max {
			return b.Tax[dependents-1]
		}
	}
	if income < t.Brackets[0].Min {
		return t.Brackets[0].Tax[dependents-1]
	}
	return t.Brackets[len(t.Brackets)-1].Tax[dependents-1]
}

// MinimumWageMoney is the minimum hourly wage as Money.
func (t *Table) MinimumWageMoney() payroll.Money {
	return payroll.NewMoneyFromDecimal(t.MinimumWage)
}

// =============================================================================
// BOOK - Every loaded year
// =============================================================================

// Book indexes tables by year.
type Book struct {
	tables map[int]*Table
	years  []int // ascending
}

// Years lists the loaded years in ascending order.
func (b *Book) Years() []int {
	out := make([]int, len(b.years))
	copy(out, b.years)
	return out
}

// Table returns the table for exactly year.
func (b *Book) Table(year int) (*Table, error) {
	t, ok := b.tables[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrYearNotFound, year)
	}
	return t, nil
}

// Resolve returns the table for year, falling back to the newest earlier
// year, and to the oldest table when year precedes them all.
func (b *Book) Resolve(year int) *Table {
	if t, ok := b.tables[year]; ok {
		return t
	}
	i := sort.SearchInts(b.years, year)
	if i == 0 {
		return b.tables[b.years[0]]
	}
	return b.tables[b.years[i-1]]
}

// Latest returns the newest table.
func (b *Book) Latest() *Table {
	return b.tables[b.years[len(b.years)-1]]
}

var (
	defaultOnce sync.Once
	defaultBook *Book
)

// Default returns the embedded table. It panics if the embedded document is
// broken, which the package tests rule out.
func Default() *Book {
	defaultOnce.Do(func() {
		b, err := Load(bytes.NewReader(statutoryYAML))
		if err != nil {
			panic(fmt.Sprintf("rates: embedded statutory table: %v", err))
		}
		defaultBook = b
	})
	return defaultBook
}

// LoadFile reads a rate document from disk.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a rate document.
func Load(r io.Reader) (*Book, error) {
	var doc documentYAML
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if len(doc.Years) == 0 {
		return nil, fmt.Errorf("%w: no years defined", ErrInvalidTable)
	}

	book := &Book{tables: make(map[int]*Table, len(doc.Years))}
	for _, y := range doc.Years {
		t, err := y.toTable()
		if err != nil {
			return nil, fmt.Errorf("%w: year %d: %v", ErrInvalidTable, y.Year, err)
		}
		if _, dup := book.tables[t.Year]; dup {
			return nil, fmt.Errorf("%w: year %d defined twice", ErrInvalidTable, t.Year)
		}
		book.tables[t.Year] = t
		book.years = append(book.years, t.Year)
	}
	sort.Ints(book.years)
	return book, nil
}
