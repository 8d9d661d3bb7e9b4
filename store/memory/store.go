// Package memory provides an in-memory snapshot store for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/tally/party"
	"github.com/xraph/tally/store"
)

// Store keeps snapshots in a map guarded by a RWMutex.
type Store struct {
	mu        sync.RWMutex
	snapshots map[party.Kind]*store.Snapshot
	closed    bool
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		snapshots: make(map[party.Kind]*store.Snapshot),
	}
}

func (s *Store) SaveSnapshot(_ context.Context, snap *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrStoreClosed
	}
	s.snapshots[snap.Owner] = snap.Clone()
	return nil
}

func (s *Store) LoadSnapshot(_ context.Context, owner party.Kind) (*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrStoreClosed
	}
	if snap, ok := s.snapshots[owner]; ok {
		return snap.Clone(), nil
	}
	return nil, store.ErrSnapshotNotFound
}

func (s *Store) ListOwners(_ context.Context) ([]party.Kind, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrStoreClosed
	}
	owners := make([]party.Kind, 0, len(s.snapshots))
	for owner := range s.snapshots {
		owners = append(owners, owner)
	}
	return owners, nil
}

func (s *Store) DeleteSnapshot(_ context.Context, owner party.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrStoreClosed
	}
	delete(s.snapshots, owner)
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
