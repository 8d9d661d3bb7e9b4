package tally

import (
	"github.com/xraph/tally/book"
	"github.com/xraph/tally/party"
	"github.com/xraph/tally/txn"
)

// Re-export common types for convenience so users don't have to import
// the core packages for the usual handshake.

// Kind is re-exported from the party package.
type Kind = party.Kind

// Creditor is re-exported from the party package.
type Creditor = party.Creditor

// Debtor is re-exported from the party package.
type Debtor = party.Debtor

// Sheet is re-exported from the book package.
type Sheet = book.Sheet

// Stamp is re-exported from the book package.
type Stamp = book.Stamp

// Balance is re-exported from the book package.
type Balance = book.Balance

// Coins is re-exported from the book package.
type Coins = book.Coins

// Unit is re-exported from the txn package.
type Unit = txn.Unit

// Re-export constructors and the unit runner.
var (
	CreditorOf = party.CreditorOf
	DebtorOf   = party.DebtorOf
	NewSheet   = book.NewSheet
	Run        = txn.Run
)
