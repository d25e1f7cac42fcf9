/*
Package payroll provides the value objects and entities of the payroll engine.

PURPOSE:
  Everything a pay calculation consumes lives here: exact currency amounts,
  working-time quantities, and the immutable records describing who is paid
  (Employee), for what (Allowance), and when they worked (WorkShift). The
  calculator package turns these into results; this package has no
  knowledge of statutory rates.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: An exact decimal amount tagged with a currency
  - Currency: ISO code, KRW unless stated otherwise
  - RoundToWon: Half-up rounding to the integer won

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal, never float64, for currency
  2. Immutability: Every operation returns a new Money
  3. Round early: Calculators round each component before summing it

USAGE:
  salary := payroll.NewMoney(2_500_000)
  hourly, err := salary.Div(decimal.NewFromInt(174))
  hourly = hourly.RoundToWon() // 14368

SEE ALSO:
  - hours.go: WorkingHours value object
  - errors.go: ErrCurrencyMismatch, ErrDivisionByZero
*/
package payroll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact currency amount
// =============================================================================

type Currency string

const (
	KRW Currency = "KRW"
)

// Money is an immutable currency amount. The zero value is 0 KRW.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(won int64) Money {
	return Money{amount: decimal.NewFromInt(won), currency: KRW}
}

func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: KRW}
}

func NewMoneyIn(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// ParseMoney parses a decimal string such as "12345.67" into KRW.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("not a decimal: %q", s)}
	}
	return NewMoneyFromDecimal(d), nil
}

func Zero() Money { return NewMoney(0) }

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency {
	if m.currency == "" {
		return KRW
	}
	return m.currency
}

// SameCurrency returns ErrCurrencyMismatch when the two amounts cannot be combined.
func (m Money) SameCurrency(o Money) error {
	if m.Currency() != o.Currency() {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency(), o.Currency())
	}
	return nil
}

// mustMatch panics on a currency mismatch. Mixing currencies is a programming
// error: every amount the calculators create is KRW.
func (m Money) mustMatch(o Money) {
	if err := m.SameCurrency(o); err != nil {
		panic(err)
	}
}

// Arithmetic

func (m Money) Add(o Money) Money {
	m.mustMatch(o)
	return Money{amount: m.amount.Add(o.amount), currency: m.Currency()}
}

func (m Money) Sub(o Money) Money {
	m.mustMatch(o)
	return Money{amount: m.amount.Sub(o.amount), currency: m.Currency()}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.Currency()}
}

func (m Money) MulInt(factor int64) Money {
	return m.Mul(decimal.NewFromInt(factor))
}

func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivisionByZero
	}
	return Money{amount: m.amount.Div(divisor), currency: m.Currency()}, nil
}

func (m Money) Neg() Money { return Money{amount: m.amount.Neg(), currency: m.Currency()} }

// Comparison

// Compare returns -1, 0 or 1, or ErrCurrencyMismatch.
func (m Money) Compare(o Money) (int, error) {
	if err := m.SameCurrency(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

func (m Money) LessThan(o Money) bool {
	m.mustMatch(o)
	return m.amount.LessThan(o.amount)
}

func (m Money) LessThanOrEqual(o Money) bool {
	m.mustMatch(o)
	return m.amount.LessThanOrEqual(o.amount)
}

func (m Money) GreaterThan(o Money) bool {
	m.mustMatch(o)
	return m.amount.GreaterThan(o.amount)
}

func (m Money) GreaterThanOrEqual(o Money) bool {
	m.mustMatch(o)
	return m.amount.GreaterThanOrEqual(o.amount)
}

func (m Money) Equal(o Money) bool {
	return m.Currency() == o.Currency() && m.amount.Equal(o.amount)
}

func (m Money) Min(o Money) Money {
	if m.LessThan(o) {
		return m
	}
	return o
}

func (m Money) Max(o Money) Money {
	if m.GreaterThan(o) {
		return m
	}
	return o
}

// Predicates

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// =============================================================================
// ROUNDING & FORMATTING
// =============================================================================

// RoundToWon rounds half-up to the integer won: 12345.5 -> 12346.
// Negative halves round away from zero (-0.5 -> -1).
func (m Money) RoundToWon() Money {
	return Money{amount: m.amount.Round(0), currency: m.Currency()}
}

// Int64 returns the amount rounded to the won.
func (m Money) Int64() int64 {
	return m.amount.Round(0).IntPart()
}

// Format renders the rounded amount with thousands separators: "2,500,000 KRW".
func (m Money) Format() string {
	return GroupThousands(m.Int64()) + " " + string(m.Currency())
}

func (m Money) String() string {
	return m.amount.String() + " " + string(m.Currency())
}

// GroupThousands renders n with comma separators.
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Sum adds amounts of the same currency. An empty list sums to 0 KRW.
func Sum(amounts ...Money) Money {
	total := Zero()
	if len(amounts) > 0 {
		total = NewMoneyIn(decimal.Zero, amounts[0].Currency())
	}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
