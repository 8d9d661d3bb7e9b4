package book

import "errors"

// Sentinel errors for protocol invariant violations. Each one corresponds to
// exactly one illegal transition; none of them is retryable inside the unit
// that raised it. The unit aborts and the caller submits a corrected one.
var (
	// Registration errors
	ErrDebtorNotFound   = errors.New("tally: debtor not registered on sheet")
	ErrCreditorNotFound = errors.New("tally: creditor not registered on sheet")
	ErrDebtorExists     = errors.New("tally: debtor already registered on sheet")
	ErrCreditorExists   = errors.New("tally: creditor already registered on sheet")

	// Cell errors
	ErrDestroyNonEmptySheet = errors.New("tally: cannot remove entry with outstanding balance")
	ErrRepayTooMuch         = errors.New("tally: subtraction exceeds outstanding balance")

	// Settlement errors
	ErrAlreadyRepaid      = errors.New("tally: collector already holds a repayment")
	ErrNoRepayment        = errors.New("tally: collector holds no repayment")
	ErrNotEnoughRepayment = errors.New("tally: repaid magnitude does not match requirement")

	// Authorization errors
	ErrNotAuthorized = errors.New("tally: stamp does not authorize this operation")

	ErrSheetNotEmpty = errors.New("tally: sheet already carries balances")
)
