// Package hook provides an extensible hook system for tally.
// Hooks observe settlement lifecycle events; they never mutate ledger state,
// and a failing or slow hook cannot fail or block the settlement pipeline.
package hook

import (
	"context"
	"time"

	"github.com/xraph/tally/book"
)

// Hook is the base interface that all hooks must implement.
type Hook interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Hook
	OnInit(ctx context.Context, l any) error
}

// OnShutdown is called when the ledger is shutting down.
type OnShutdown interface {
	Hook
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnLoanIssued is called after a unit commits a recorded claim.
type OnLoanIssued interface {
	Hook
	OnLoanIssued(ctx context.Context, ev book.LoanIssued) error
}

// OnLoanReceived is called after a unit commits an accepted loan.
type OnLoanReceived interface {
	Hook
	OnLoanReceived(ctx context.Context, ev book.LoanReceived) error
}

// OnCollectorIssued is called after a unit commits a settlement demand.
type OnCollectorIssued interface {
	Hook
	OnCollectorIssued(ctx context.Context, ev book.CollectorIssued) error
}

// OnRepaid is called after a unit commits a repayment.
type OnRepaid interface {
	Hook
	OnRepaid(ctx context.Context, ev book.Repaid) error
}

// OnCollected is called after a unit commits a completed collection.
type OnCollected interface {
	Hook
	OnCollected(ctx context.Context, ev book.Collected) error
}

// ──────────────────────────────────────────────────
// Unit and snapshot hooks
// ──────────────────────────────────────────────────

// OnUnitAborted is called when a unit of work rolls back.
type OnUnitAborted interface {
	Hook
	OnUnitAborted(ctx context.Context, err error) error
}

// OnSnapshotFlushed is called after sheet balances are persisted.
type OnSnapshotFlushed interface {
	Hook
	OnSnapshotFlushed(ctx context.Context, sheets int, elapsed time.Duration) error
}
