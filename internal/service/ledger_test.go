package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/testutil"
)

func seedUser(t *testing.T, store *testutil.MemStore, id string) {
	t.Helper()
	err := store.CreateUser(context.Background(), &model.User{
		ID:        id,
		Email:     id + "@x.com",
		Credits:   model.SignupCredits,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestLedgerService_Onramp(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	seedUser(t, store, "user_1")

	svc := NewLedgerService(store, nil)

	txn, credits, err := svc.Onramp(ctx, "user_1")
	if err != nil {
		t.Fatalf("onramp: %v", err)
	}

	if credits != model.SignupCredits+model.OnrampCreditAmount {
		t.Errorf("expected balance %d, got %d", model.SignupCredits+model.OnrampCreditAmount, credits)
	}
	if txn.Amount != model.OnrampCreditAmount {
		t.Errorf("expected transaction amount %d, got %d", model.OnrampCreditAmount, txn.Amount)
	}
	if txn.Status != model.TxStatusSuccess {
		t.Errorf("expected status %q, got %q", model.TxStatusSuccess, txn.Status)
	}

	txns, err := svc.ListTransactions(ctx, "user_1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(txns))
	}
	if txns[0].ID != txn.ID {
		t.Errorf("expected transaction %s, got %s", txn.ID, txns[0].ID)
	}
}

func TestLedgerService_Onramp_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	seedUser(t, store, "user_1")

	svc := NewLedgerService(store, nil)

	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Onramp(ctx, "user_1"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent onramp: %v", err)
	}

	credits, err := svc.GetBalance(ctx, "user_1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	want := model.SignupCredits + n*model.OnrampCreditAmount
	if credits != want {
		t.Errorf("expected balance %d after %d onramps, got %d (lost updates)", want, n, credits)
	}

	// One transaction row per onramp.
	txns, err := store.ListTransactions(ctx, "user_1", n+1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != n {
		t.Errorf("expected %d transaction rows, got %d", n, len(txns))
	}
}

func TestLedgerService_GetBalance_MissingUser(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(testutil.NewMemStore(), nil)

	credits, err := svc.GetBalance(ctx, "ghost")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if credits != 0 {
		t.Errorf("expected 0 credits for missing user, got %d", credits)
	}
}

func TestLedgerService_ListTransactions_CapsAtPageSize(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	seedUser(t, store, "user_1")

	svc := NewLedgerService(store, nil)

	for i := 0; i < transactionPageSize+5; i++ {
		if _, _, err := svc.Onramp(ctx, "user_1"); err != nil {
			t.Fatalf("onramp %d: %v", i, err)
		}
	}

	txns, err := svc.ListTransactions(ctx, "user_1")
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != transactionPageSize {
		t.Errorf("expected %d transactions, got %d", transactionPageSize, len(txns))
	}

	// Newest first.
	for i := 1; i < len(txns); i++ {
		if txns[i-1].ID < txns[i].ID {
			t.Errorf("transactions out of order at %d: %s before %s", i, txns[i-1].ID, txns[i].ID)
		}
	}
}
