package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// MONEY
// =============================================================================

func TestMoney_RoundToWon_HalfUp(t *testing.T) {
	cases := map[string]int64{
		"12345.5":  12346,
		"12345.49": 12345,
		"0.5":      1,
		"99.999":   100,
		"-0.5":     -1,
	}
	for in, want := range cases {
		m := NewMoneyFromDecimal(dec(in)).RoundToWon()
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(want)), "%s -> %s", in, m.Amount())
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoney(1000)
	b := NewMoney(300)

	assert.Equal(t, int64(1300), a.Add(b).Int64())
	assert.Equal(t, int64(700), a.Sub(b).Int64())
	assert.Equal(t, int64(1500), a.Mul(dec("1.5")).Int64())
	assert.Equal(t, int64(3000), a.MulInt(3).Int64())

	q, err := a.Div(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(333), q.RoundToWon().Int64())
}

func TestMoney_DivideByZero(t *testing.T) {
	_, err := NewMoney(1000).Div(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.True(t, IsClientError(err))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	krw := NewMoney(1000)
	usd := NewMoneyIn(dec("10"), Currency("USD"))

	_, err := krw.Compare(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.Panics(t, func() { krw.Add(usd) })
	assert.Panics(t, func() { krw.LessThan(usd) })
	assert.False(t, krw.Equal(usd))

	// The panic value carries the sentinel.
	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrCurrencyMismatch))
	}()
	krw.Sub(usd)
}

func TestMoney_ZeroValueIsKRW(t *testing.T) {
	var m Money
	assert.Equal(t, KRW, m.Currency())
	assert.True(t, m.IsZero())
	assert.Equal(t, int64(5), m.Add(NewMoney(5)).Int64())
}

func TestMoney_Comparisons(t *testing.T) {
	small, big := NewMoney(1), NewMoney(2)

	assert.True(t, small.LessThan(big))
	assert.True(t, small.LessThanOrEqual(small))
	assert.True(t, big.GreaterThan(small))
	assert.True(t, big.GreaterThanOrEqual(big))
	assert.Equal(t, small, small.Min(big))
	assert.Equal(t, big, small.Max(big))

	c, err := big.Compare(small)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, Zero().IsZero())
	assert.True(t, NewMoney(1).IsPositive())
	assert.True(t, NewMoney(-1).IsNegative())
	assert.False(t, Zero().IsPositive())
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "2,500,000 KRW", NewMoney(2_500_000).Format())
	assert.Equal(t, "999 KRW", NewMoney(999).Format())
	assert.Equal(t, "-1,000 KRW", NewMoney(-1000).Format())
	assert.Equal(t, "1,000 KRW", NewMoneyFromDecimal(dec("999.5")).Format())
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney(" 12345.67 ")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(dec("12345.67")))

	_, err = ParseMoney("twelve")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	assert.Equal(t, int64(600), Sum(NewMoney(100), NewMoney(200), NewMoney(300)).Int64())
}

// =============================================================================
// WORKING HOURS
// =============================================================================

func TestWorkingHours_Construction(t *testing.T) {
	h, err := NewWorkingHours(8, 30)
	require.NoError(t, err)
	assert.Equal(t, 510, h.TotalMinutes())
	assert.True(t, h.DecimalHours().Equal(dec("8.5")))
	assert.Equal(t, "8h30m", h.String())

	_, err = NewWorkingHours(-1, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewWorkingHours(1, 60)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = WorkingHoursFromMinutes(-5)
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestWorkingHours_FromDecimalTruncates(t *testing.T) {
	h, err := WorkingHoursFromDecimal(dec("1.999"))
	require.NoError(t, err)
	assert.Equal(t, 1, h.Hours())
	assert.Equal(t, 59, h.Minutes())
}

func TestWorkingHours_ArithmeticNormalizes(t *testing.T) {
	a, _ := NewWorkingHours(1, 45)
	b, _ := NewWorkingHours(0, 30)

	sum := a.Add(b)
	assert.Equal(t, 2, sum.Hours())
	assert.Equal(t, 15, sum.Minutes())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, 75, diff.TotalMinutes())

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrNegativeHours)

	scaled, err := MinutesOf(600).Mul(dec("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "15h", scaled.String())
}

func TestWorkingHours_Comparisons(t *testing.T) {
	a, b := MinutesOf(60), MinutesOf(90)
	assert.True(t, a.LessThan(b))
	assert.True(t, a.LessOrEqual(a))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, b.GreaterOrEqual(b))
	assert.True(t, MinutesOf(-3).IsZero())
}
