// Package custody implements the identity/custody collaborator: labeled
// identity records that own objects, and single-use pending-action tickets.
//
// Custody shares the ledger's capability idiom: a Ticket must be destroyed
// by the party that derived it, and destroying it recovers the originating
// address. The ledger core never calls into this package. Like sheets,
// records assume the hosting environment grants exclusive access per unit of
// work.
package custody

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xraph/tally/id"
)

// Sentinel errors for custody misuse.
var (
	ErrNotInTransit = errors.New("tally: no object in transit at address")
	ErrTicketSpent  = errors.New("tally: ticket already destroyed")
)

// Record is an identity that can own assets and receive inbound transfers.
type Record struct {
	id        id.ID
	label     string
	address   uuid.UUID
	createdAt time.Time

	// Objects sent to this record and not yet pulled into custody,
	// keyed by their transit address.
	inbox map[uuid.UUID]any

	// Objects the record has taken custody of.
	held map[uuid.UUID]any
}

// New creates an identity record with a human-readable label and a fresh
// address.
func New(label string) *Record {
	return &Record{
		id:        id.NewAccountID(),
		label:     label,
		address:   uuid.New(),
		createdAt: time.Now().UTC(),
		inbox:     make(map[uuid.UUID]any),
		held:      make(map[uuid.UUID]any),
	}
}

// ID returns the record's identifier.
func (r *Record) ID() id.ID { return r.id }

// Label returns the record's human-readable label.
func (r *Record) Label() string { return r.label }

// Address returns the record's address.
func (r *Record) Address() uuid.UUID { return r.address }

// Age returns how long ago the record was created.
func (r *Record) Age() time.Duration { return time.Since(r.createdAt) }

// Send parks an object in transit addressed to the record and returns the
// transit address the owner can later pull it from.
func (r *Record) Send(obj any) uuid.UUID {
	addr := uuid.New()
	r.inbox[addr] = obj
	return addr
}

// Pull takes a previously-sent object into the record's custody. An address
// with nothing in transit fails with ErrNotInTransit.
func (r *Record) Pull(addr uuid.UUID) (any, error) {
	obj, ok := r.inbox[addr]
	if !ok {
		return nil, ErrNotInTransit
	}
	delete(r.inbox, addr)
	r.held[addr] = obj
	return obj, nil
}

// Holds reports whether the record has custody of the object at addr.
func (r *Record) Holds(addr uuid.UUID) bool {
	_, ok := r.held[addr]
	return ok
}

// ──────────────────────────────────────────────────
// Pending-action tickets
// ──────────────────────────────────────────────────

// Ticket is a single-use pending-action token. It is tied to the address it
// was derived from; destroying it recovers that address exactly once.
type Ticket struct {
	id     id.ID
	origin uuid.UUID
	spent  bool
}

// Derive mints a ticket tied to the record's own address.
func (r *Record) Derive() *Ticket {
	return &Ticket{id: id.NewTicketID(), origin: r.address}
}

// DeriveFor mints a ticket tied to an arbitrary calling principal.
func DeriveFor(principal uuid.UUID) *Ticket {
	return &Ticket{id: id.NewTicketID(), origin: principal}
}

// ID returns the ticket's identifier.
func (t *Ticket) ID() id.ID { return t.id }

// Destroy consumes the ticket and recovers the originating address.
// A second destruction fails with ErrTicketSpent.
func (t *Ticket) Destroy() (uuid.UUID, error) {
	if t.spent {
		return uuid.Nil, ErrTicketSpent
	}
	t.spent = true
	return t.origin, nil
}
