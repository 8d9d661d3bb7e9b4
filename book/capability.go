package book

import (
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/party"
	"github.com/xraph/tally/txn"
)

// The three settlement capabilities are linear values: each is created inside
// a unit, registers an obligation with it, and must be destructured by its
// one matching consuming operation before the unit ends. A capability cannot
// be stored, cloned, or silently discarded; an unconsumed capability fails
// the whole unit.
//
// Each capability carries paired Credit/Debt stubs equal to its magnitude.
// The consuming operation subtracts the magnitude back out of both stubs and
// destroys them; any remainder is an invariant breach and aborts the unit.

// Loan is in-flight lent value, pending acceptance by the debtor.
type Loan struct {
	id         id.ID
	creditor   party.Creditor
	debtor     party.Debtor
	balance    Balance
	creditStub Credit
	debtStub   Debt
	obligation *txn.Obligation
}

// ID returns the loan's identifier.
func (l *Loan) ID() id.ID { return l.id }

// Creditor returns the lending side of the loan.
func (l *Loan) Creditor() party.Creditor { return l.creditor }

// Debtor returns the receiving side of the loan.
func (l *Loan) Debtor() party.Debtor { return l.debtor }

// Magnitude returns the lent magnitude.
func (l *Loan) Magnitude() uint64 { return l.creditStub.Amount() }

// Repayment is in-flight repaid value, pending collection by the creditor.
type Repayment struct {
	id         id.ID
	balance    Balance
	creditStub Credit
	debtStub   Debt
	obligation *txn.Obligation
}

// ID returns the repayment's identifier.
func (r *Repayment) ID() id.ID { return r.id }

// Magnitude returns the repaid magnitude.
func (r *Repayment) Magnitude() uint64 { return r.creditStub.Amount() }

// Collector is a demand for settlement of an exact amount. Its repayment
// slot is filled at most once, by Repay, and the whole capability is
// consumed by Collect.
type Collector struct {
	id          id.ID
	creditor    party.Creditor
	debtor      party.Debtor
	requirement uint64
	repayment   *Repayment
	obligation  *txn.Obligation
}

// ID returns the collector's identifier.
func (c *Collector) ID() id.ID { return c.id }

// Creditor returns the demanding side of the collector.
func (c *Collector) Creditor() party.Creditor { return c.creditor }

// Debtor returns the side the collector demands settlement from.
func (c *Collector) Debtor() party.Debtor { return c.debtor }

// Requirement returns the exact magnitude the collector demands.
func (c *Collector) Requirement() uint64 { return c.requirement }

// Repaid reports whether the repayment slot has been filled.
func (c *Collector) Repaid() bool { return c.repayment != nil }

// dischargeStubs drains both stubs by the settled magnitude and destroys
// them. The stubs were created equal to the magnitude, so anything short of
// an exact zero-out is an invariant breach.
func dischargeStubs(credit *Credit, debt *Debt, magnitude uint64) error {
	if err := credit.Subtract(magnitude); err != nil {
		return err
	}
	if err := debt.Subtract(magnitude); err != nil {
		return err
	}
	if err := credit.Destroy(); err != nil {
		return err
	}
	return debt.Destroy()
}

// ──────────────────────────────────────────────────
// Settlement operations
// ──────────────────────────────────────────────────

// Loan records a claim against the debtor kind on the owner's own sheet and
// wraps the balance in a Loan capability for the debtor to receive. The
// debtor must already be registered (ErrDebtorNotFound).
func (s *Sheet) Loan(u *txn.Unit, debtor party.Debtor, bal Balance, st Stamp) (*Loan, error) {
	if !st.authorizes(s.owner) {
		return nil, ErrNotAuthorized
	}
	cell, ok := s.credits[debtor]
	if !ok {
		return nil, ErrDebtorNotFound
	}

	s.enlist(u)
	magnitude := bal.Magnitude()
	cell.Add(magnitude)
	s.credits[debtor] = cell

	loan := &Loan{
		id:       id.NewLoanID(),
		creditor: party.CreditorOf(s.owner),
		debtor:   debtor,
		balance:  bal,
	}
	loan.creditStub.Add(magnitude)
	loan.debtStub.Add(magnitude)
	loan.obligation = u.Oblige("loan " + loan.id.String())

	u.Note(LoanIssued{
		ID:        loan.id,
		Creditor:  s.owner,
		Debtor:    debtor.Kind(),
		Magnitude: magnitude,
	})
	return loan, nil
}

// Receive consumes a Loan on the debtor's own sheet: it records the matching
// obligation against the loan's creditor, discharges the loan's stubs, and
// returns the raw balance. The creditor must already be registered
// (ErrCreditorNotFound).
func (s *Sheet) Receive(u *txn.Unit, loan *Loan, st Stamp) (Balance, error) {
	if !st.authorizes(s.owner) || loan.debtor.Kind() != s.owner {
		return nil, ErrNotAuthorized
	}
	cell, ok := s.debts[loan.creditor]
	if !ok {
		return nil, ErrCreditorNotFound
	}

	s.enlist(u)
	magnitude := loan.balance.Magnitude()
	cell.Add(magnitude)
	s.debts[loan.creditor] = cell

	if err := dischargeStubs(&loan.creditStub, &loan.debtStub, magnitude); err != nil {
		return nil, err
	}
	loan.obligation.Settle()

	bal := loan.balance
	loan.balance = nil

	u.Note(LoanReceived{
		ID:        loan.id,
		Creditor:  loan.creditor.Kind(),
		Debtor:    s.owner,
		Magnitude: magnitude,
	})
	return bal, nil
}

// Dun creates a Collector on the owner's own sheet demanding settlement of
// exactly requirement from the debtor kind. The collector is independent of
// any specific loan; it is keyed only by its declared requirement.
func (s *Sheet) Dun(u *txn.Unit, debtor party.Debtor, requirement uint64, st Stamp) (*Collector, error) {
	if !st.authorizes(s.owner) {
		return nil, ErrNotAuthorized
	}

	col := &Collector{
		id:          id.NewCollectorID(),
		creditor:    party.CreditorOf(s.owner),
		debtor:      debtor,
		requirement: requirement,
	}
	col.obligation = u.Oblige("collector " + col.id.String())

	u.Note(CollectorIssued{
		ID:          col.id,
		Creditor:    s.owner,
		Debtor:      debtor.Kind(),
		Requirement: requirement,
	})
	return col, nil
}

// Repay fills the collector's repayment slot on the debtor's own sheet and
// reduces the debtor's obligation to the collector's creditor by the
// balance's magnitude. A filled slot fails with ErrAlreadyRepaid; an
// unregistered creditor with ErrCreditorNotFound; an over-repayment with
// ErrRepayTooMuch.
func (s *Sheet) Repay(u *txn.Unit, col *Collector, bal Balance, st Stamp) error {
	if !st.authorizes(s.owner) || col.debtor.Kind() != s.owner {
		return ErrNotAuthorized
	}
	if col.repayment != nil {
		return ErrAlreadyRepaid
	}
	cell, ok := s.debts[col.creditor]
	if !ok {
		return ErrCreditorNotFound
	}

	s.enlist(u)
	magnitude := bal.Magnitude()
	if err := cell.Subtract(magnitude); err != nil {
		return err
	}
	s.debts[col.creditor] = cell

	rp := &Repayment{
		id:      id.NewRepaymentID(),
		balance: bal,
	}
	rp.creditStub.Add(magnitude)
	rp.debtStub.Add(magnitude)
	rp.obligation = u.Oblige("repayment " + rp.id.String())
	col.repayment = rp

	u.Note(Repaid{
		ID:        rp.id,
		Collector: col.id,
		Creditor:  col.creditor.Kind(),
		Debtor:    s.owner,
		Magnitude: magnitude,
	})
	return nil
}

// Collect consumes the collector on the creditor's own sheet: it reduces the
// owner's claim against the collector's debtor, discharges the repayment's
// stubs, verifies the repaid magnitude exactly equals the requirement
// (ErrNotEnoughRepayment otherwise), and returns the raw balance. An empty
// slot fails with ErrNoRepayment.
func (s *Sheet) Collect(u *txn.Unit, col *Collector, st Stamp) (Balance, error) {
	if !st.authorizes(s.owner) || col.creditor.Kind() != s.owner {
		return nil, ErrNotAuthorized
	}
	rp := col.repayment
	if rp == nil {
		return nil, ErrNoRepayment
	}
	cell, ok := s.credits[col.debtor]
	if !ok {
		return nil, ErrDebtorNotFound
	}

	s.enlist(u)
	magnitude := rp.balance.Magnitude()
	if err := cell.Subtract(magnitude); err != nil {
		return nil, err
	}
	s.credits[col.debtor] = cell

	if err := dischargeStubs(&rp.creditStub, &rp.debtStub, magnitude); err != nil {
		return nil, err
	}
	if magnitude != col.requirement {
		return nil, ErrNotEnoughRepayment
	}

	rp.obligation.Settle()
	col.obligation.Settle()

	bal := rp.balance
	rp.balance = nil
	col.repayment = nil

	u.Note(Collected{
		ID:        col.id,
		Repayment: rp.id,
		Creditor:  s.owner,
		Debtor:    col.debtor.Kind(),
		Magnitude: magnitude,
	})
	return bal, nil
}
