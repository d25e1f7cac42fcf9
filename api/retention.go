/*
retention.go - Saved calculation retention scheduler

PURPOSE:
  Periodically deletes saved calculation records older than the configured
  retention, so the records table does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Prunes once immediately on start, then on every tick
  - A zero retention disables the scheduler

USAGE:
  scheduler := NewRetentionScheduler(store, 365*24*time.Hour, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlite: PruneRecords
  - cmd/server/main.go: RECORD_RETENTION_DAYS
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/payroll-engine/store/sqlite"
)

// RetentionScheduler prunes old calculation records.
type RetentionScheduler struct {
	Store         *sqlite.Store
	Retention     time.Duration
	CheckInterval time.Duration
	Logger        *slog.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a scheduler checking once an hour.
func NewRetentionScheduler(store *sqlite.Store, retention time.Duration, logger *slog.Logger) *RetentionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionScheduler{
		Store:         store,
		Retention:     retention,
		CheckInterval: time.Hour,
		Logger:        logger,
		now:           time.Now,
	}
}

// Start begins the scheduler. Calling Start on a running scheduler does
// nothing.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.Retention <= 0 {
		rs.Logger.Info("record retention disabled")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.Info("record retention started",
		slog.Duration("retention", rs.Retention),
		slog.Duration("interval", rs.CheckInterval))
}

// Stop stops the scheduler and waits for a running prune to finish.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("record retention stopped")
	}
}

func (rs *RetentionScheduler) run() {
	defer rs.wg.Done()

	rs.Prune(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.Prune(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// Prune deletes the records older than the retention and returns how many
// were removed. Errors are logged.
func (rs *RetentionScheduler) Prune(ctx context.Context) int64 {
	cutoff := rs.now().Add(-rs.Retention)
	n, err := rs.Store.PruneRecords(ctx, cutoff)
	if err != nil {
		rs.Logger.Error("prune records", slog.Any("error", err))
		return 0
	}
	if n > 0 {
		rs.Logger.Info("pruned records", slog.Int64("count", n), slog.Time("cutoff", cutoff))
	}
	return n
}
