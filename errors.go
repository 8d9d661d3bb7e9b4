package tally

import (
	"errors"

	"github.com/xraph/tally/book"
	"github.com/xraph/tally/custody"
	"github.com/xraph/tally/fixed"
	"github.com/xraph/tally/store"
	"github.com/xraph/tally/txn"
)

// Facade errors.
var (
	ErrSheetOpen     = errors.New("tally: sheet already open for role")
	ErrSheetNotFound = errors.New("tally: no open sheet for role")
)

// Protocol sentinels re-exported from their defining packages, so callers
// can match every tally failure with errors.Is against one import.
var (
	// Registration errors
	ErrDebtorNotFound   = book.ErrDebtorNotFound
	ErrCreditorNotFound = book.ErrCreditorNotFound
	ErrDebtorExists     = book.ErrDebtorExists
	ErrCreditorExists   = book.ErrCreditorExists

	// Cell errors
	ErrDestroyNonEmptySheet = book.ErrDestroyNonEmptySheet
	ErrRepayTooMuch         = book.ErrRepayTooMuch

	// Settlement errors
	ErrAlreadyRepaid      = book.ErrAlreadyRepaid
	ErrNoRepayment        = book.ErrNoRepayment
	ErrNotEnoughRepayment = book.ErrNotEnoughRepayment
	ErrNotAuthorized      = book.ErrNotAuthorized
	ErrDanglingObligation = txn.ErrDanglingObligation

	// Arithmetic errors
	ErrDividedByZero      = fixed.ErrDividedByZero
	ErrSubtrahendTooLarge = fixed.ErrSubtrahendTooLarge

	// Custody errors
	ErrNotInTransit = custody.ErrNotInTransit
	ErrTicketSpent  = custody.ErrTicketSpent

	// Store errors
	ErrSnapshotNotFound = store.ErrSnapshotNotFound
	ErrStoreClosed      = store.ErrStoreClosed
)

// IsNotFound returns true if the error reports a missing registration,
// sheet, snapshot, or in-transit object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDebtorNotFound) ||
		errors.Is(err, ErrCreditorNotFound) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrNotInTransit)
}

// IsSettlementError returns true if the error is a settlement-protocol
// violation that aborted the unit.
func IsSettlementError(err error) bool {
	return errors.Is(err, ErrRepayTooMuch) ||
		errors.Is(err, ErrAlreadyRepaid) ||
		errors.Is(err, ErrNoRepayment) ||
		errors.Is(err, ErrNotEnoughRepayment) ||
		errors.Is(err, ErrDanglingObligation)
}

// IsArithmeticError returns true if the error came from fixed-point
// arithmetic misuse.
func IsArithmeticError(err error) bool {
	return errors.Is(err, ErrDividedByZero) ||
		errors.Is(err, ErrSubtrahendTooLarge)
}
