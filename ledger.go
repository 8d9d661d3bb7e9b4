package tally

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tally/book"
	"github.com/xraph/tally/hook"
	"github.com/xraph/tally/party"
	"github.com/xraph/tally/store"
	"github.com/xraph/tally/txn"
)

// Ledger is the hosting facade for the settlement protocol. It opens one
// sheet per role, executes units of work with exclusive sheet access, emits
// lifecycle hooks for committed effects, and periodically persists sheet
// balances through the snapshot store.
type Ledger struct {
	store  store.Store
	hooks  *hook.Registry
	logger *slog.Logger

	// execMu serializes units and snapshot flushes: a unit of work holds
	// exclusive access to every open sheet for its duration.
	execMu sync.Mutex

	mu     sync.RWMutex
	sheets map[party.Kind]*book.Sheet
	stamps map[party.Kind]book.Stamp

	// Background worker
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Configuration
	snapshotInterval time.Duration
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:            s,
		hooks:            hook.NewRegistry(),
		logger:           slog.Default(),
		sheets:           make(map[party.Kind]*book.Sheet),
		stamps:           make(map[party.Kind]book.Stamp),
		stopChan:         make(chan struct{}),
		snapshotInterval: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.hooks.WithLogger(logger)
	}
}

// WithHook registers a lifecycle hook.
func WithHook(h hook.Hook) Option {
	return func(l *Ledger) {
		_ = l.hooks.Register(h) //nolint:errcheck // best-effort hook registration during init
	}
}

// WithSnapshotInterval sets the snapshot flush interval.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(l *Ledger) {
		l.snapshotInterval = interval
	}
}

// Start migrates the store and begins the snapshot flush worker.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	l.hooks.EmitInit(ctx, l)

	l.wg.Add(1)
	go l.snapshotWorker(ctx)

	l.logger.Info("ledger started",
		"snapshot_interval", l.snapshotInterval,
	)

	return nil
}

// Stop flushes a final snapshot, shuts down the worker, and closes the store.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.hooks.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Sheet management
// ──────────────────────────────────────────────────

// Open creates the sheet for a role, seeds it from a stored snapshot when
// one exists, and returns it together with the role's one authorization
// stamp. Opening the same role twice fails with ErrSheetOpen.
func (l *Ledger) Open(ctx context.Context, kind party.Kind) (*book.Sheet, book.Stamp, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.sheets[kind]; exists {
		return nil, book.Stamp{}, ErrSheetOpen
	}

	sheet, stamp := book.NewSheet(kind)

	snap, err := l.store.LoadSnapshot(ctx, kind)
	switch {
	case err == nil:
		if err := sheet.Seed(snap.Credits, snap.Debts, stamp); err != nil {
			return nil, book.Stamp{}, err
		}
		l.logger.Info("sheet restored from snapshot",
			"owner", kind,
			"taken_at", snap.TakenAt,
		)
	case errors.Is(err, store.ErrSnapshotNotFound):
		// Fresh role, empty sheet.
	default:
		return nil, book.Stamp{}, fmt.Errorf("restore sheet for %q: %w", kind, err)
	}

	l.sheets[kind] = sheet
	l.stamps[kind] = stamp
	return sheet, stamp, nil
}

// Sheet returns the open sheet for a role, or ErrSheetNotFound.
func (l *Ledger) Sheet(kind party.Kind) (*book.Sheet, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if sheet, ok := l.sheets[kind]; ok {
		return sheet, nil
	}
	return nil, ErrSheetNotFound
}

// ──────────────────────────────────────────────────
// Unit execution
// ──────────────────────────────────────────────────

// Execute runs fn as one atomic unit of work with exclusive access to every
// open sheet. Committed settlement events are delivered to the registered
// hooks; an aborted unit emits OnUnitAborted and leaves no effects behind.
func (l *Ledger) Execute(ctx context.Context, fn func(u *txn.Unit) error) error {
	l.execMu.Lock()
	defer l.execMu.Unlock()

	err := txn.Run(fn, txn.WithObserver(func(event any) {
		l.dispatch(ctx, event)
	}))
	if err != nil {
		l.hooks.EmitUnitAborted(ctx, err)
		l.logger.Warn("unit aborted", "error", err)
		return err
	}
	return nil
}

// dispatch routes a committed settlement event to the hook registry.
func (l *Ledger) dispatch(ctx context.Context, event any) {
	switch ev := event.(type) {
	case book.LoanIssued:
		l.hooks.EmitLoanIssued(ctx, ev)
	case book.LoanReceived:
		l.hooks.EmitLoanReceived(ctx, ev)
	case book.CollectorIssued:
		l.hooks.EmitCollectorIssued(ctx, ev)
	case book.Repaid:
		l.hooks.EmitRepaid(ctx, ev)
	case book.Collected:
		l.hooks.EmitCollected(ctx, ev)
	default:
		l.logger.Debug("unrecognized unit event", "type", fmt.Sprintf("%T", event))
	}
}

// ──────────────────────────────────────────────────
// Snapshot persistence
// ──────────────────────────────────────────────────

// Flush persists the current balances of every open sheet.
func (l *Ledger) Flush(ctx context.Context) error {
	l.execMu.Lock()
	defer l.execMu.Unlock()

	start := time.Now()

	l.mu.RLock()
	sheets := make(map[party.Kind]*book.Sheet, len(l.sheets))
	for kind, sheet := range l.sheets {
		sheets[kind] = sheet
	}
	l.mu.RUnlock()

	for kind, sheet := range sheets {
		snap := &store.Snapshot{
			Owner:   kind,
			TakenAt: time.Now().UTC(),
			Credits: sheet.Credits(),
			Debts:   sheet.Debts(),
		}
		if err := l.store.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("flush sheet for %q: %w", kind, err)
		}
	}

	elapsed := time.Since(start)
	l.hooks.EmitSnapshotFlushed(ctx, len(sheets), elapsed)

	l.logger.Debug("flushed snapshots",
		"sheets", len(sheets),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return nil
}

// snapshotWorker flushes sheet balances on a fixed interval.
func (l *Ledger) snapshotWorker(ctx context.Context) {
	defer l.wg.Done()

	if l.snapshotInterval <= 0 {
		return
	}

	ticker := time.NewTicker(l.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Final flush
			if err := l.Flush(ctx); err != nil {
				l.logger.Error("final snapshot flush failed", "error", err)
			}
			return

		case <-ticker.C:
			if err := l.Flush(ctx); err != nil {
				l.logger.Error("snapshot flush failed", "error", err)
			}
		}
	}
}
