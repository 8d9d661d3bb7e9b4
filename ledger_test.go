package tally

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/tally/book"
	"github.com/xraph/tally/party"
	"github.com/xraph/tally/store"
	"github.com/xraph/tally/store/memory"
	"github.com/xraph/tally/txn"
)

func TestOpenSheet(t *testing.T) {
	l := New(memory.New())
	ctx := context.Background()

	sheet, stamp, err := l.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	if sheet == nil || stamp.Kind() != "bank" {
		t.Fatalf("open: sheet=%v stamp kind=%s", sheet, stamp.Kind())
	}

	if _, _, err := l.Open(ctx, "bank"); !errors.Is(err, ErrSheetOpen) {
		t.Errorf("second open: got %v, want ErrSheetOpen", err)
	}

	got, err := l.Sheet("bank")
	if err != nil || got != sheet {
		t.Errorf("Sheet lookup: got %v, %v", got, err)
	}
	if _, err := l.Sheet("shop"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("missing sheet: got %v, want ErrSheetNotFound", err)
	}
}

// countingHook counts committed settlement events and aborted units.
type countingHook struct {
	mu       sync.Mutex
	issued   int
	received int
	aborted  int
}

func (h *countingHook) Name() string { return "counting" }

func (h *countingHook) OnLoanIssued(context.Context, book.LoanIssued) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.issued++
	return nil
}

func (h *countingHook) OnLoanReceived(context.Context, book.LoanReceived) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received++
	return nil
}

func (h *countingHook) OnUnitAborted(context.Context, error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.aborted++
	return nil
}

func TestExecuteDeliversCommittedEvents(t *testing.T) {
	counting := &countingHook{}
	l := New(memory.New(), WithHook(counting))
	ctx := context.Background()

	bank, bankStamp, err := l.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	shop, shopStamp, err := l.Open(ctx, "shop")
	if err != nil {
		t.Fatal(err)
	}
	if err := bank.AddDebtor(party.DebtorOf("shop"), bankStamp); err != nil {
		t.Fatal(err)
	}
	if err := shop.AddCreditor(party.CreditorOf("bank"), shopStamp); err != nil {
		t.Fatal(err)
	}

	err = l.Execute(ctx, func(u *txn.Unit) error {
		loan, err := bank.Loan(u, party.DebtorOf("shop"), book.Coins(50), bankStamp)
		if err != nil {
			return err
		}
		_, err = shop.Receive(u, loan, shopStamp)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	counting.mu.Lock()
	defer counting.mu.Unlock()
	if counting.issued != 1 || counting.received != 1 || counting.aborted != 0 {
		t.Errorf("events: issued=%d received=%d aborted=%d, want 1/1/0",
			counting.issued, counting.received, counting.aborted)
	}
}

func TestExecuteAbortEmitsNoEvents(t *testing.T) {
	counting := &countingHook{}
	l := New(memory.New(), WithHook(counting))
	ctx := context.Background()

	bank, bankStamp, err := l.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	if err := bank.AddDebtor(party.DebtorOf("shop"), bankStamp); err != nil {
		t.Fatal(err)
	}

	// A loan never received leaves a dangling obligation; the unit aborts.
	err = l.Execute(ctx, func(u *txn.Unit) error {
		_, err := bank.Loan(u, party.DebtorOf("shop"), book.Coins(50), bankStamp)
		return err
	})
	if !errors.Is(err, txn.ErrDanglingObligation) {
		t.Fatalf("got %v, want ErrDanglingObligation", err)
	}

	if magnitude, _ := bank.CreditTo(party.DebtorOf("shop")); magnitude != 0 {
		t.Errorf("credit after abort: got %d, want 0", magnitude)
	}
	counting.mu.Lock()
	defer counting.mu.Unlock()
	if counting.issued != 0 || counting.aborted != 1 {
		t.Errorf("events: issued=%d aborted=%d, want 0/1", counting.issued, counting.aborted)
	}
}

func TestFlushAndRestore(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	l := New(st)
	bank, bankStamp, err := l.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	shop, shopStamp, err := l.Open(ctx, "shop")
	if err != nil {
		t.Fatal(err)
	}
	if err := bank.AddDebtor(party.DebtorOf("shop"), bankStamp); err != nil {
		t.Fatal(err)
	}
	if err := shop.AddCreditor(party.CreditorOf("bank"), shopStamp); err != nil {
		t.Fatal(err)
	}

	err = l.Execute(ctx, func(u *txn.Unit) error {
		loan, err := bank.Loan(u, party.DebtorOf("shop"), book.Coins(75), bankStamp)
		if err != nil {
			return err
		}
		_, err = shop.Receive(u, loan, shopStamp)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	// A second ledger over the same store restores the balances.
	restored := New(st)
	bank2, _, err := restored.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	shop2, _, err := restored.Open(ctx, "shop")
	if err != nil {
		t.Fatal(err)
	}
	if magnitude, ok := bank2.CreditTo(party.DebtorOf("shop")); !ok || magnitude != 75 {
		t.Errorf("restored credit: got %d (%v), want 75", magnitude, ok)
	}
	if magnitude, ok := shop2.DebtTo(party.CreditorOf("bank")); !ok || magnitude != 75 {
		t.Errorf("restored debt: got %d (%v), want 75", magnitude, ok)
	}
}

func TestStartStop(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	l := New(st, WithSnapshotInterval(time.Hour))
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}

	bank, bankStamp, err := l.Open(ctx, "bank")
	if err != nil {
		t.Fatal(err)
	}
	if err := bank.AddDebtor(party.DebtorOf("shop"), bankStamp); err != nil {
		t.Fatal(err)
	}

	// Stop flushes a final snapshot, then closes the store.
	if err := l.Stop(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadSnapshot(ctx, "bank"); !errors.Is(err, store.ErrStoreClosed) {
		t.Errorf("load after stop: got %v, want ErrStoreClosed", err)
	}
}
