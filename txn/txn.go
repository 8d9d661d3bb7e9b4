// Package txn provides the atomic unit of work the settlement protocol runs
// inside.
//
// Every mutating ledger operation takes a *Unit. Resources (sheets) enlist on
// first mutation and are restored to their enlistment state if the unit fails.
// Capabilities register an Obligation when created; a unit that ends with an
// undischarged obligation fails with ErrDanglingObligation and is rolled back
// like any other failure. Either every effect of a unit is kept, or none is.
//
// A unit is single-threaded: it runs to completion on the calling goroutine
// with no suspension points. Exclusive access to the sheets a unit touches is
// the caller's responsibility, exactly as the hosting ownership model demands.
package txn

import (
	"errors"
	"fmt"
)

// ErrDanglingObligation reports a unit that ended while a settlement
// capability was still undischarged.
var ErrDanglingObligation = errors.New("tally: unit ended with undischarged obligation")

// Unit is one atomic unit of work.
type Unit struct {
	enlisted    map[any]struct{}
	restores    []func()
	obligations []*Obligation
	events      []any
	closed      bool
}

// Obligation is the linearity marker carried by a settlement capability.
// It is created by Oblige and discharged exactly once by the capability's
// consuming operation.
type Obligation struct {
	name      string
	satisfied bool
}

// Settle discharges the obligation. Settling twice is a programming error
// and panics, mirroring a double-consume of the capability itself.
func (o *Obligation) Settle() {
	if o.satisfied {
		panic(fmt.Sprintf("txn: obligation %q settled twice", o.name))
	}
	o.satisfied = true
}

// Settled reports whether the obligation has been discharged.
func (o *Obligation) Settled() bool { return o.satisfied }

// Oblige registers a new obligation with the unit. The unit cannot complete
// until it is settled.
func (u *Unit) Oblige(name string) *Obligation {
	u.checkOpen()
	o := &Obligation{name: name}
	u.obligations = append(u.obligations, o)
	return o
}

// Enlist registers a resource for rollback. The restore closure is captured
// on first enlistment only; later calls with the same key are no-ops, so the
// unit always restores to the state at first touch.
func (u *Unit) Enlist(key any, restore func()) {
	u.checkOpen()
	if _, ok := u.enlisted[key]; ok {
		return
	}
	u.enlisted[key] = struct{}{}
	u.restores = append(u.restores, restore)
}

// Note records an event to be delivered to the unit's observer, but only if
// the unit commits. Events of a rolled-back unit are discarded with it.
func (u *Unit) Note(event any) {
	u.checkOpen()
	u.events = append(u.events, event)
}

func (u *Unit) checkOpen() {
	if u.closed {
		panic("txn: unit used after completion")
	}
}

// outstanding returns an error naming every undischarged obligation.
func (u *Unit) outstanding() error {
	var names []string
	for _, o := range u.obligations {
		if !o.satisfied {
			names = append(names, o.name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrDanglingObligation, names)
}

// rollback restores enlisted resources in reverse enlistment order.
func (u *Unit) rollback() {
	for i := len(u.restores) - 1; i >= 0; i-- {
		u.restores[i]()
	}
}

// Option configures a unit run.
type Option func(*config)

type config struct {
	observer func(event any)
}

// WithObserver delivers the unit's noted events, in order, after the unit
// commits. A rolled-back unit delivers nothing.
func WithObserver(fn func(event any)) Option {
	return func(c *config) { c.observer = fn }
}

// Run executes fn as one atomic unit. If fn returns an error, or leaves any
// obligation undischarged, every enlisted resource is restored and the error
// is returned unchanged. There is no partial outcome.
func Run(fn func(u *Unit) error, opts ...Option) error {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	u := &Unit{enlisted: make(map[any]struct{})}

	err := fn(u)
	if err == nil {
		err = u.outstanding()
	}

	u.closed = true

	if err != nil {
		u.rollback()
		return err
	}

	if cfg.observer != nil {
		for _, ev := range u.events {
			cfg.observer(ev)
		}
	}
	return nil
}
