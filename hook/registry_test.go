package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/tally/book"
)

// recordingHook implements every settlement hook interface and records the
// events it sees.
type recordingHook struct {
	name     string
	issued   []book.LoanIssued
	repaid   []book.Repaid
	aborted  []error
	initSeen bool
	err      error
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) OnInit(context.Context, any) error {
	h.initSeen = true
	return h.err
}

func (h *recordingHook) OnLoanIssued(_ context.Context, ev book.LoanIssued) error {
	h.issued = append(h.issued, ev)
	return h.err
}

func (h *recordingHook) OnRepaid(_ context.Context, ev book.Repaid) error {
	h.repaid = append(h.repaid, ev)
	return h.err
}

func (h *recordingHook) OnUnitAborted(_ context.Context, err error) error {
	h.aborted = append(h.aborted, err)
	return h.err
}

// namedHook implements only the base Hook interface.
type namedHook struct{ name string }

func (h namedHook) Name() string { return h.name }

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(namedHook{name: "alpha"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(namedHook{name: "beta"}); err != nil {
		t.Fatal(err)
	}
	if got := r.Count(); got != 2 {
		t.Errorf("count: got %d, want 2", got)
	}
	if h := r.Get("alpha"); h == nil || h.Name() != "alpha" {
		t.Errorf("Get alpha: got %v", h)
	}
	if h := r.Get("missing"); h != nil {
		t.Errorf("Get missing: got %v", h)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(namedHook{name: "alpha"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&recordingHook{name: "alpha"}); err == nil {
		t.Fatal("duplicate registration succeeded")
	}
}

func TestTypedDispatch(t *testing.T) {
	r := NewRegistry()
	rec := &recordingHook{name: "rec"}
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}
	// A hook with no event interfaces is never dispatched to.
	if err := r.Register(namedHook{name: "inert"}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	r.EmitInit(ctx, nil)
	r.EmitLoanIssued(ctx, book.LoanIssued{Creditor: "bank", Debtor: "shop", Magnitude: 50})
	r.EmitRepaid(ctx, book.Repaid{Creditor: "bank", Debtor: "shop", Magnitude: 50})
	r.EmitUnitAborted(ctx, errors.New("boom"))
	// rec does not implement OnCollected; this must be a no-op.
	r.EmitCollected(ctx, book.Collected{})

	if !rec.initSeen {
		t.Error("OnInit not dispatched")
	}
	if len(rec.issued) != 1 || rec.issued[0].Magnitude != 50 {
		t.Errorf("issued events: got %v", rec.issued)
	}
	if len(rec.repaid) != 1 {
		t.Errorf("repaid events: got %v", rec.repaid)
	}
	if len(rec.aborted) != 1 || rec.aborted[0].Error() != "boom" {
		t.Errorf("aborted events: got %v", rec.aborted)
	}
}

func TestFailingHookDoesNotStopDispatch(t *testing.T) {
	r := NewRegistry()
	failing := &recordingHook{name: "failing", err: errors.New("hook failure")}
	healthy := &recordingHook{name: "healthy"}
	if err := r.Register(failing); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(healthy); err != nil {
		t.Fatal(err)
	}

	r.EmitLoanIssued(context.Background(), book.LoanIssued{Magnitude: 10})

	if len(failing.issued) != 1 || len(healthy.issued) != 1 {
		t.Errorf("dispatch counts: failing=%d healthy=%d, want 1/1",
			len(failing.issued), len(healthy.issued))
	}
}
