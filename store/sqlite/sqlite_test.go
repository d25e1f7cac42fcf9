package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// calendar snapshots the stored holidays the way the API does.
func calendar(t *testing.T, s *Store) payroll.HolidayCalendar {
	t.Helper()
	hs, err := s.ListHolidays(context.Background(), 0)
	require.NoError(t, err)
	return rates.NewCalendar(hs)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestSeedHolidays_FromRates(t *testing.T) {
	// GIVEN: The 2026 statutory holiday list
	// WHEN: Seeded twice
	// THEN: Each date is stored once and the snapshot answers as a calendar

	ctx := context.Background()
	s := newStore(t)
	seed := rates.Default().Latest().Holidays

	require.NoError(t, s.SeedHolidays(ctx, seed))
	require.NoError(t, s.SeedHolidays(ctx, seed))

	all, err := s.ListHolidays(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, all, len(seed))
	assert.True(t, all[0].Date.Equal(payroll.Date(2026, time.January, 1)))

	cal := calendar(t, s)
	laborDay := payroll.Date(2026, time.May, 1)
	assert.True(t, cal.IsHoliday(laborDay, payroll.CompanyUnder5))
	assert.True(t, cal.IsHoliday(laborDay, payroll.CompanyOver5))

	childrensDay := payroll.Date(2026, time.May, 5)
	assert.False(t, cal.IsHoliday(childrensDay, payroll.CompanyUnder5))
	assert.True(t, cal.IsHoliday(childrensDay, payroll.CompanyOver5))

	assert.False(t, cal.IsHoliday(payroll.Date(2026, time.May, 6), payroll.CompanyOver5))
	assert.Empty(t, cal.Holidays(2025))
}

func TestSeedHolidays_KeepsEdits(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.SaveHoliday(ctx, payroll.Holiday{Date: payroll.Date(2026, time.January, 1), Name: "Company New Year"})
	require.NoError(t, err)
	require.NoError(t, s.SeedHolidays(ctx, rates.Default().Latest().Holidays))

	hs, err := s.ListHolidays(ctx, 2026)
	require.NoError(t, err)
	require.NotEmpty(t, hs)
	assert.Equal(t, "Company New Year", hs[0].Name)
}

func TestSeedHolidays_OncePerYear(t *testing.T) {
	// GIVEN: A seeded year with one holiday deleted through the store
	// WHEN: Seeded again, as on the next restart, together with a new year
	// THEN: The deleted holiday stays deleted and the new year is added

	ctx := context.Background()
	s := newStore(t)
	seed := rates.Default().Latest().Holidays
	require.NoError(t, s.SeedHolidays(ctx, seed))

	hs, err := s.ListHolidays(ctx, 2026)
	require.NoError(t, err)
	require.NoError(t, s.DeleteHoliday(ctx, hs[0].ID))

	next := payroll.Holiday{Date: payroll.Date(2027, time.January, 1), Name: "New Year's Day"}
	require.NoError(t, s.SeedHolidays(ctx, append(append([]payroll.Holiday{}, seed...), next)))

	again, err := s.ListHolidays(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, again, len(seed)-1)
	assert.False(t, calendar(t, s).IsHoliday(hs[0].Date, payroll.CompanyOver5))

	added, err := s.ListHolidays(ctx, 2027)
	require.NoError(t, err)
	assert.Len(t, added, 1)
}

func TestSaveHoliday_UpsertByDate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	date := payroll.Date(2026, time.July, 17)

	first, err := s.SaveHoliday(ctx, payroll.Holiday{Date: date, Name: "Constitution Day"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := s.SaveHoliday(ctx, payroll.Holiday{Date: date, Name: "Constitution Day", AllCompanySizes: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same date keeps the original row")
	assert.True(t, calendar(t, s).IsHoliday(date, payroll.CompanyUnder5))

	hs, err := s.ListHolidays(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, hs, 1)
}

func TestSaveHoliday_Validation(t *testing.T) {
	s := newStore(t)

	_, err := s.SaveHoliday(context.Background(), payroll.Holiday{Name: "No date"})
	assert.True(t, payroll.IsClientError(err))

	_, err = s.SaveHoliday(context.Background(), payroll.Holiday{Date: payroll.Date(2026, time.July, 17), Name: " "})
	assert.True(t, payroll.IsClientError(err))
}

func TestDeleteHoliday(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	h, err := s.SaveHoliday(ctx, payroll.Holiday{Date: payroll.Date(2026, time.July, 17), Name: "Constitution Day"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteHoliday(ctx, h.ID))
	assert.False(t, calendar(t, s).IsHoliday(h.Date, payroll.CompanyOver5))
	assert.True(t, errors.Is(s.DeleteHoliday(ctx, h.ID), ErrNotFound))
}

// =============================================================================
// CALCULATION RECORDS
// =============================================================================

func TestRecords_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)

	older, err := s.SaveRecord(ctx, CalculationRecord{
		Kind: KindForward, EmployeeName: "Kim", Month: "2026-01",
		NetPay: 2_923_354, TotalGross: 3_314_944,
		Payload: []byte(`{"net_pay":2923354}`), CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, older.ID)

	newer, err := s.SaveRecord(ctx, CalculationRecord{
		Kind: KindReverse, EmployeeName: "Lee", Month: "2026-01",
		NetPay: 3_000_000, TotalGross: 3_400_000,
		Payload: []byte(`{}`), CreatedAt: base.Add(time.Minute),
	})
	require.NoError(t, err)

	got, err := s.GetRecord(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Kim", got.EmployeeName)
	assert.Equal(t, int64(2_923_354), got.NetPay)
	assert.JSONEq(t, `{"net_pay":2923354}`, string(got.Payload))
	assert.True(t, got.CreatedAt.Equal(base))

	list, err := s.ListRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	assert.Nil(t, list[0].Payload)

	limited, err := s.ListRecords(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, s.DeleteRecord(ctx, older.ID))
	missing, err := s.GetRecord(ctx, older.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.True(t, errors.Is(s.DeleteRecord(ctx, older.ID), ErrNotFound))
}

func TestPruneRecords(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	cutoff := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{cutoff.AddDate(0, 0, -1), cutoff.Add(-time.Nanosecond), cutoff, cutoff.AddDate(0, 1, 0)} {
		_, err := s.SaveRecord(ctx, CalculationRecord{Kind: KindForward, Payload: []byte(`{}`), CreatedAt: at})
		require.NoError(t, err)
	}

	n, err := s.PruneRecords(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.ListRecords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, left, 2)

	n, err = s.PruneRecords(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveRecord_Validation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.SaveRecord(ctx, CalculationRecord{Kind: "preview"})
	assert.True(t, payroll.IsClientError(err))

	r, err := s.SaveRecord(ctx, CalculationRecord{Kind: KindForward, Payload: []byte(`{}`)})
	require.NoError(t, err)
	_, err = s.SaveRecord(ctx, CalculationRecord{ID: r.ID, Kind: KindForward, Payload: []byte(`{}`)})
	assert.True(t, payroll.IsClientError(err))
}
