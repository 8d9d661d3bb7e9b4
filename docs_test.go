package tally_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/tally"
	"github.com/xraph/tally/store/memory"
	"github.com/xraph/tally/txn"
)

// TestDocumentationExamples verifies that the examples in the documentation
// compile and behave as written.
func TestDocumentationExamples(t *testing.T) {
	// Quick Start example from the package documentation
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use SQLite in production)
		store := memory.New()

		l := tally.New(store,
			tally.WithLogger(slog.Default()),
			tally.WithSnapshotInterval(time.Hour),
		)

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Open one sheet per role
		bank, bankStamp, err := l.Open(ctx, "bank")
		if err != nil {
			t.Fatal(err)
		}
		shop, shopStamp, err := l.Open(ctx, "shop")
		if err != nil {
			t.Fatal(err)
		}

		// Register the counterparties
		if err := bank.AddDebtor(tally.DebtorOf("shop"), bankStamp); err != nil {
			t.Fatal(err)
		}
		if err := shop.AddCreditor(tally.CreditorOf("bank"), shopStamp); err != nil {
			t.Fatal(err)
		}

		// Run the loan handshake inside one unit of work
		err = l.Execute(ctx, func(u *tally.Unit) error {
			loan, err := bank.Loan(u, tally.DebtorOf("shop"), tally.Coins(50), bankStamp)
			if err != nil {
				return err
			}
			_, err = shop.Receive(u, loan, shopStamp)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}

		if magnitude, _ := bank.CreditTo(tally.DebtorOf("shop")); magnitude != 50 {
			t.Errorf("credit: got %d, want 50", magnitude)
		}
		if magnitude, _ := shop.DebtTo(tally.CreditorOf("bank")); magnitude != 50 {
			t.Errorf("debt: got %d, want 50", magnitude)
		}
	})

	// Standalone sheets without the facade, as shown in Core Concepts
	t.Run("StandaloneSheets", func(t *testing.T) {
		bank, bankStamp := tally.NewSheet("bank")
		shop, shopStamp := tally.NewSheet("shop")

		if err := bank.AddDebtor(tally.DebtorOf("shop"), bankStamp); err != nil {
			t.Fatal(err)
		}
		if err := shop.AddCreditor(tally.CreditorOf("bank"), shopStamp); err != nil {
			t.Fatal(err)
		}

		// Lend, then settle the full amount with dun/repay/collect.
		err := tally.Run(func(u *txn.Unit) error {
			loan, err := bank.Loan(u, tally.DebtorOf("shop"), tally.Coins(100), bankStamp)
			if err != nil {
				return err
			}
			_, err = shop.Receive(u, loan, shopStamp)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}

		var recovered tally.Balance
		err = tally.Run(func(u *txn.Unit) error {
			col, err := bank.Dun(u, tally.DebtorOf("shop"), 100, bankStamp)
			if err != nil {
				return err
			}
			if err := shop.Repay(u, col, tally.Coins(100), shopStamp); err != nil {
				return err
			}
			recovered, err = bank.Collect(u, col, bankStamp)
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
		if recovered.Magnitude() != 100 {
			t.Errorf("recovered: got %d, want 100", recovered.Magnitude())
		}
	})
}
