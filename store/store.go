// Package store defines the balance-snapshot storage interface.
//
// A snapshot is the current cell balances of one sheet, never a transaction
// log. Persisting snapshots lets a role restore its ledger across process
// restarts; the settlement protocol itself runs entirely in memory.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/xraph/tally/party"
)

// Sentinel errors for store failures.
var (
	ErrSnapshotNotFound = errors.New("tally: snapshot not found")
	ErrStoreClosed      = errors.New("tally: store is closed")
)

// Snapshot is one sheet's balances at a point in time, keyed by counterparty
// kind.
type Snapshot struct {
	Owner   party.Kind
	TakenAt time.Time

	// Credits maps debtor kind to the magnitude owed to the owner.
	Credits map[party.Kind]uint64

	// Debts maps creditor kind to the magnitude the owner owes.
	Debts map[party.Kind]uint64
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Owner:   s.Owner,
		TakenAt: s.TakenAt,
		Credits: make(map[party.Kind]uint64, len(s.Credits)),
		Debts:   make(map[party.Kind]uint64, len(s.Debts)),
	}
	for k, v := range s.Credits {
		out.Credits[k] = v
	}
	for k, v := range s.Debts {
		out.Debts[k] = v
	}
	return out
}

// Store persists sheet snapshots, one per owning role kind.
type Store interface {
	// SaveSnapshot replaces the stored snapshot for the snapshot's owner.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadSnapshot returns the stored snapshot for an owner, or
	// ErrSnapshotNotFound.
	LoadSnapshot(ctx context.Context, owner party.Kind) (*Snapshot, error)

	// ListOwners returns every owner kind with a stored snapshot.
	ListOwners(ctx context.Context) ([]party.Kind, error)

	// DeleteSnapshot removes a stored snapshot. Deleting a missing
	// snapshot is not an error.
	DeleteSnapshot(ctx context.Context, owner party.Kind) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
