package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/xraph/tally/party"
	"github.com/xraph/tally/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap := &store.Snapshot{
		Owner:   "bank",
		TakenAt: time.Date(2026, 8, 1, 12, 30, 0, 123456789, time.UTC),
		Credits: map[party.Kind]uint64{"shop": 50, "farm": math.MaxUint64},
		Debts:   map[party.Kind]uint64{"fed": 1000},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSnapshot(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	if got.Owner != "bank" {
		t.Errorf("owner: got %s", got.Owner)
	}
	if !got.TakenAt.Equal(snap.TakenAt) {
		t.Errorf("taken at: got %v, want %v", got.TakenAt, snap.TakenAt)
	}
	// Full-range magnitudes survive the text encoding.
	if got.Credits["shop"] != 50 || got.Credits["farm"] != math.MaxUint64 {
		t.Errorf("credits: got %v", got.Credits)
	}
	if got.Debts["fed"] != 1000 {
		t.Errorf("debts: got %v", got.Debts)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &store.Snapshot{
		Owner:   "bank",
		TakenAt: time.Now().UTC(),
		Credits: map[party.Kind]uint64{"shop": 50, "farm": 30},
	}
	if err := s.SaveSnapshot(ctx, first); err != nil {
		t.Fatal(err)
	}

	// A later snapshot with fewer cells fully replaces the first.
	second := &store.Snapshot{
		Owner:   "bank",
		TakenAt: time.Now().UTC(),
		Credits: map[party.Kind]uint64{"shop": 10},
	}
	if err := s.SaveSnapshot(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSnapshot(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Credits) != 1 || got.Credits["shop"] != 10 {
		t.Errorf("credits after replace: got %v", got.Credits)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadSnapshot(context.Background(), "nobody"); !errors.Is(err, store.ErrSnapshotNotFound) {
		t.Errorf("got %v, want ErrSnapshotNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, owner := range []party.Kind{"shop", "bank"} {
		snap := &store.Snapshot{Owner: owner, TakenAt: time.Now().UTC()}
		if err := s.SaveSnapshot(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	owners, err := s.ListOwners(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(owners) != 2 || owners[0] != "bank" || owners[1] != "shop" {
		t.Fatalf("owners: got %v, want [bank shop]", owners)
	}

	if err := s.DeleteSnapshot(ctx, "bank"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadSnapshot(ctx, "bank"); !errors.Is(err, store.ErrSnapshotNotFound) {
		t.Errorf("after delete: got %v, want ErrSnapshotNotFound", err)
	}
	if err := s.DeleteSnapshot(ctx, "bank"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}
