// Package sqlite provides a snapshot store backed by SQLite, using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xraph/tally/party"
	"github.com/xraph/tally/store"
)

// Store persists snapshots to a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path. Call Migrate before use.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// SQLite allows one writer at a time; a single pooled connection keeps
	// the driver from returning SQLITE_BUSY under concurrent flushes.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sheet_snapshots (
			owner    TEXT PRIMARY KEY,
			taken_at TEXT NOT NULL
		)`,

		// Magnitudes are stored as text: cells saturate at the full
		// unsigned 64-bit range, which overflows SQLite's signed INTEGER.
		`CREATE TABLE IF NOT EXISTS sheet_cells (
			owner        TEXT NOT NULL,
			side         TEXT NOT NULL CHECK (side IN ('credit', 'debt')),
			counterparty TEXT NOT NULL,
			magnitude    TEXT NOT NULL,
			PRIMARY KEY (owner, side, counterparty)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sheet_cells_owner ON sheet_cells(owner)`,
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *store.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sheet_cells WHERE owner = ?`, string(snap.Owner)); err != nil {
		return fmt.Errorf("sqlite: clear cells: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheet_snapshots (owner, taken_at) VALUES (?, ?)
		 ON CONFLICT(owner) DO UPDATE SET taken_at = excluded.taken_at`,
		string(snap.Owner), snap.TakenAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("sqlite: upsert snapshot: %w", err)
	}

	insert := func(side string, cells map[party.Kind]uint64) error {
		for counterparty, magnitude := range cells {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sheet_cells (owner, side, counterparty, magnitude) VALUES (?, ?, ?, ?)`,
				string(snap.Owner), side, string(counterparty),
				strconv.FormatUint(magnitude, 10)); err != nil {
				return fmt.Errorf("sqlite: insert %s cell: %w", side, err)
			}
		}
		return nil
	}
	if err := insert("credit", snap.Credits); err != nil {
		return err
	}
	if err := insert("debt", snap.Debts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, owner party.Kind) (*store.Snapshot, error) {
	var takenAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT taken_at FROM sheet_snapshots WHERE owner = ?`, string(owner)).Scan(&takenAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load snapshot: %w", err)
	}

	snap := &store.Snapshot{
		Owner:   owner,
		Credits: make(map[party.Kind]uint64),
		Debts:   make(map[party.Kind]uint64),
	}
	if snap.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse taken_at %q: %w", takenAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT side, counterparty, magnitude FROM sheet_cells WHERE owner = ?`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("sqlite: load cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var side, counterparty, magnitudeText string
		if err := rows.Scan(&side, &counterparty, &magnitudeText); err != nil {
			return nil, fmt.Errorf("sqlite: scan cell: %w", err)
		}
		magnitude, err := strconv.ParseUint(magnitudeText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse magnitude %q: %w", magnitudeText, err)
		}
		switch side {
		case "credit":
			snap.Credits[party.Kind(counterparty)] = magnitude
		case "debt":
			snap.Debts[party.Kind(counterparty)] = magnitude
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate cells: %w", err)
	}
	return snap, nil
}

func (s *Store) ListOwners(ctx context.Context) ([]party.Kind, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT owner FROM sheet_snapshots ORDER BY owner`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list owners: %w", err)
	}
	defer rows.Close()

	var owners []party.Kind
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("sqlite: scan owner: %w", err)
		}
		owners = append(owners, party.Kind(owner))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate owners: %w", err)
	}
	return owners, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, owner party.Kind) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_cells WHERE owner = ?`, string(owner)); err != nil {
		return fmt.Errorf("sqlite: delete cells: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sheet_snapshots WHERE owner = ?`, string(owner)); err != nil {
		return fmt.Errorf("sqlite: delete snapshot: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
