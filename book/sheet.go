// Package book implements the credit/debt ledger core: value cells, per-role
// sheets, and the linear settlement capabilities that move value between them.
//
// Each role keeps a private Sheet. Lending records a claim on the creditor's
// sheet and an obligation on the debtor's sheet; both halves carry the same
// magnitude and both must independently reach zero through the matching
// discharge operations, so value is conserved without any shared cross-role
// object or transaction log.
package book

import (
	"maps"

	"github.com/xraph/tally/party"
	"github.com/xraph/tally/txn"
)

// Stamp proves authority to act as a sheet's owning role. It is minted
// exactly once, by NewSheet, and presented with every mutating operation.
// There is no ambient authority: an operation without the right stamp fails
// with ErrNotAuthorized.
type Stamp struct {
	kind  party.Kind
	valid bool
}

// Kind returns the role the stamp authorizes.
func (st Stamp) Kind() party.Kind { return st.kind }

func (st Stamp) authorizes(k party.Kind) bool {
	return st.valid && st.kind == k
}

// Sheet is one role's private ledger of claims and obligations, keyed by
// counterparty kind. Entries are registered and removed explicitly; an
// operation against an unregistered counterparty fails rather than inserting.
//
// A sheet is not safe for concurrent use. The hosting environment must grant
// a unit of work exclusive access to every sheet it touches, mirroring the
// object-ownership model the protocol was designed for.
type Sheet struct {
	owner   party.Kind
	credits map[party.Debtor]Credit
	debts   map[party.Creditor]Debt
}

// NewSheet creates an empty sheet for the owning role and mints the one
// stamp that authorizes operations on it.
func NewSheet(owner party.Kind) (*Sheet, Stamp) {
	s := &Sheet{
		owner:   owner,
		credits: make(map[party.Debtor]Credit),
		debts:   make(map[party.Creditor]Debt),
	}
	return s, Stamp{kind: owner, valid: true}
}

// Owner returns the sheet's owning role kind.
func (s *Sheet) Owner() party.Kind { return s.owner }

// enlist registers the sheet with the unit so a failed unit restores both
// mappings to their state at first touch.
func (s *Sheet) enlist(u *txn.Unit) {
	credits := maps.Clone(s.credits)
	debts := maps.Clone(s.debts)
	u.Enlist(s, func() {
		s.credits = credits
		s.debts = debts
	})
}

// ──────────────────────────────────────────────────
// Registration
// ──────────────────────────────────────────────────

// AddDebtor registers a debtor kind with a zero-valued credit cell.
// Duplicate registration fails with ErrDebtorExists.
func (s *Sheet) AddDebtor(d party.Debtor, st Stamp) error {
	if !st.authorizes(s.owner) {
		return ErrNotAuthorized
	}
	if _, exists := s.credits[d]; exists {
		return ErrDebtorExists
	}
	s.credits[d] = Credit{}
	return nil
}

// AddCreditor registers a creditor kind with a zero-valued debt cell.
// Duplicate registration fails with ErrCreditorExists.
func (s *Sheet) AddCreditor(c party.Creditor, st Stamp) error {
	if !st.authorizes(s.owner) {
		return ErrNotAuthorized
	}
	if _, exists := s.debts[c]; exists {
		return ErrCreditorExists
	}
	s.debts[c] = Debt{}
	return nil
}

// RemoveDebtor erases a debtor's credit cell. The cell must exist and hold
// exactly zero; an outstanding claim fails with ErrDestroyNonEmptySheet.
func (s *Sheet) RemoveDebtor(d party.Debtor, st Stamp) error {
	if !st.authorizes(s.owner) {
		return ErrNotAuthorized
	}
	cell, ok := s.credits[d]
	if !ok {
		return ErrDebtorNotFound
	}
	if err := cell.Destroy(); err != nil {
		return err
	}
	delete(s.credits, d)
	return nil
}

// RemoveCreditor erases a creditor's debt cell. The cell must exist and hold
// exactly zero; an outstanding obligation fails with ErrDestroyNonEmptySheet.
func (s *Sheet) RemoveCreditor(c party.Creditor, st Stamp) error {
	if !st.authorizes(s.owner) {
		return ErrNotAuthorized
	}
	cell, ok := s.debts[c]
	if !ok {
		return ErrCreditorNotFound
	}
	if err := cell.Destroy(); err != nil {
		return err
	}
	delete(s.debts, c)
	return nil
}

// ──────────────────────────────────────────────────
// Read-only accessors
// ──────────────────────────────────────────────────

// CreditTo returns the magnitude owed to the owner by a debtor kind, and
// whether that debtor is registered.
func (s *Sheet) CreditTo(d party.Debtor) (uint64, bool) {
	cell, ok := s.credits[d]
	return cell.Amount(), ok
}

// DebtTo returns the magnitude the owner owes a creditor kind, and whether
// that creditor is registered.
func (s *Sheet) DebtTo(c party.Creditor) (uint64, bool) {
	cell, ok := s.debts[c]
	return cell.Amount(), ok
}

// Credits returns a copy of the claim mapping, keyed by debtor kind.
func (s *Sheet) Credits() map[party.Kind]uint64 {
	out := make(map[party.Kind]uint64, len(s.credits))
	for d, cell := range s.credits {
		out[d.Kind()] = cell.Amount()
	}
	return out
}

// Debts returns a copy of the obligation mapping, keyed by creditor kind.
func (s *Sheet) Debts() map[party.Kind]uint64 {
	out := make(map[party.Kind]uint64, len(s.debts))
	for c, cell := range s.debts {
		out[c.Kind()] = cell.Amount()
	}
	return out
}

// ──────────────────────────────────────────────────
// Snapshot seeding
// ──────────────────────────────────────────────────

// Seed loads previously persisted balances into an empty sheet, registering
// the counterparty keys as it goes. Seeding a sheet that already carries any
// registration fails with ErrSheetNotEmpty.
func (s *Sheet) Seed(credits, debts map[party.Kind]uint64, st Stamp) error {
	if !st.authorizes(s.owner) {
		return ErrNotAuthorized
	}
	if len(s.credits) != 0 || len(s.debts) != 0 {
		return ErrSheetNotEmpty
	}
	for k, magnitude := range credits {
		cell := Credit{}
		cell.Add(magnitude)
		s.credits[party.DebtorOf(k)] = cell
	}
	for k, magnitude := range debts {
		cell := Debt{}
		cell.Add(magnitude)
		s.debts[party.CreditorOf(k)] = cell
	}
	return nil
}
