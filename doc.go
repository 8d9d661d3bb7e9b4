// Package tally provides a multi-party credit/debt settlement ledger for Go
// applications.
//
// Tally is designed as a library, not a service. It is the bookkeeping core
// of a lending framework: typed creditor and debtor roles track mutual
// obligations in private per-role sheets, and value moves between
// them through short-lived settlement capabilities that must be consumed
// inside one atomic unit of work. It provides:
//
//   - Per-role sheets with explicit counterparty registration
//   - Linear Loan / Repayment / Collector settlement capabilities
//   - Atomic units of work with all-or-nothing rollback
//   - Conservation of value with no central transaction log
//   - Lifecycle hooks for committed settlements (prometheus built-in)
//   - Balance snapshots via pluggable stores (memory, SQLite)
//
// # Quick Start
//
// Open one sheet per role and run the handshake inside a unit:
//
//	import (
//	    "github.com/xraph/tally"
//	    "github.com/xraph/tally/store/memory"
//	)
//
//	l := tally.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	bank, bankStamp, _ := l.Open(ctx, "bank")
//	shop, shopStamp, _ := l.Open(ctx, "shop")
//
//	_ = bank.AddDebtor(tally.DebtorOf("shop"), bankStamp)
//	_ = shop.AddCreditor(tally.CreditorOf("bank"), shopStamp)
//
//	err := l.Execute(ctx, func(u *tally.Unit) error {
//	    loan, err := bank.Loan(u, tally.DebtorOf("shop"), tally.Coins(50), bankStamp)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = shop.Receive(u, loan, shopStamp)
//	    return err
//	})
//
// # Core Concepts
//
// Each role keeps a private Sheet: a mapping of debtor kind to Credit cell
// and creditor kind to Debt cell. Counterparties are registered explicitly
// with AddDebtor/AddCreditor; operations against an unregistered kind fail
// rather than inserting.
//
// Settlement flows through three linear capabilities. Loan carries lent
// value from the creditor's Loan call to the debtor's Receive. Collector is
// a demand for an exact amount, created by Dun. Repayment is attached to a
// collector by Repay and recovered by Collect. Every capability registers an
// obligation with its unit of work: a unit that ends with an undischarged
// capability aborts, and an aborted unit rolls back every sheet it touched.
// Either the whole handshake commits or none of it does.
//
// Conservation needs no central transaction log. The same magnitude is
// recorded twice, once as a claim on the creditor's sheet and once as an
// obligation on the debtor's, and both halves must independently reach zero
// through the matching discharge operations while the value itself travels
// bound inside the capability.
//
// # Errors
//
// Every invariant violation maps to one sentinel error (ErrDebtorNotFound,
// ErrRepayTooMuch, ErrAlreadyRepaid, ...). A violation aborts the enclosing
// unit; there is no local recovery. Callers match with errors.Is or the
// IsNotFound / IsSettlementError / IsArithmeticError helpers.
//
// # TypeID
//
// Capabilities and custody records carry TypeID identifiers for log and hook
// correlation:
//
//	loan_01h2xcejqtf2nbrexx3vqjhp41  // Loan capability
//	col_01h455vb4pex5vsknk084sn02q   // Collector capability
//	acct_01h455vb4pex5vsknk084sn02q  // Custody record
//
// TypeIDs are K-sortable (UUIDv7-based), giving natural time-ordering.
package tally
