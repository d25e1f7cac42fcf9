package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/store/sqlite"
)

func TestRetentionScheduler_Prune(t *testing.T) {
	// GIVEN: Records saved 40 and 10 days before "now"
	// WHEN: Pruned with a 30 day retention
	// THEN: Only the older record is removed

	ctx := context.Background()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, time.June, 30, 12, 0, 0, 0, time.UTC)
	for _, age := range []int{40, 10} {
		_, err := store.SaveRecord(ctx, sqlite.CalculationRecord{
			Kind:      sqlite.KindForward,
			Payload:   []byte(`{}`),
			CreatedAt: now.AddDate(0, 0, -age),
		})
		require.NoError(t, err)
	}

	rs := NewRetentionScheduler(store, 30*24*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rs.now = func() time.Time { return now }

	assert.Equal(t, int64(1), rs.Prune(ctx))
	left, err := store.ListRecords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRetentionScheduler_StartStop(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	disabled := NewRetentionScheduler(store, 0, logger)
	disabled.Start()
	disabled.Stop()

	rs := NewRetentionScheduler(store, time.Hour, logger)
	rs.Start()
	rs.Start()
	rs.Stop()
	rs.Stop()
}
