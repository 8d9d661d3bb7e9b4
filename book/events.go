package book

import (
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/party"
)

// Settlement events are noted on the unit as operations succeed and are
// delivered to the unit's observer only after the unit commits, so observers
// never see an effect that was rolled back.

// LoanIssued reports a claim recorded on the creditor's sheet.
type LoanIssued struct {
	ID        id.ID
	Creditor  party.Kind
	Debtor    party.Kind
	Magnitude uint64
}

// LoanReceived reports a loan accepted onto the debtor's sheet.
type LoanReceived struct {
	ID        id.ID
	Creditor  party.Kind
	Debtor    party.Kind
	Magnitude uint64
}

// CollectorIssued reports a settlement demand created by the creditor.
type CollectorIssued struct {
	ID          id.ID
	Creditor    party.Kind
	Debtor      party.Kind
	Requirement uint64
}

// Repaid reports a repayment attached to a collector by the debtor.
type Repaid struct {
	ID        id.ID
	Collector id.ID
	Creditor  party.Kind
	Debtor    party.Kind
	Magnitude uint64
}

// Collected reports a collector consumed and its balance recovered by the
// creditor.
type Collected struct {
	ID        id.ID
	Repayment id.ID
	Creditor  party.Kind
	Debtor    party.Kind
	Magnitude uint64
}
