// Package party defines the typed counterparty identities used as ledger keys.
//
// A Kind is an interned role tag: two parties are the same counterparty if and
// only if their Kinds compare equal. Creditor and Debtor wrap a Kind so that
// the two sides of an obligation cannot be confused at the type level, and
// both are comparable and usable as map keys.
package party

// Kind identifies a counterparty role. It carries no runtime instance data;
// equality is structural on the tag itself.
type Kind string

// Creditor is the claim-holding side of an obligation, keyed by Kind.
type Creditor struct {
	kind Kind
}

// Debtor is the obligation-holding side, keyed by Kind.
type Debtor struct {
	kind Kind
}

// CreditorOf returns the creditor key for a counterparty kind.
func CreditorOf(k Kind) Creditor { return Creditor{kind: k} }

// DebtorOf returns the debtor key for a counterparty kind.
func DebtorOf(k Kind) Debtor { return Debtor{kind: k} }

// Kind returns the counterparty kind behind the creditor key.
func (c Creditor) Kind() Kind { return c.kind }

// Kind returns the counterparty kind behind the debtor key.
func (d Debtor) Kind() Kind { return d.kind }

// String returns the tag for logging.
func (c Creditor) String() string { return string(c.kind) }

// String returns the tag for logging.
func (d Debtor) String() string { return string(d.kind) }
