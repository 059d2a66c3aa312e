package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/repository"
)

// transactionPageSize bounds the transaction history listing.
const transactionPageSize = 20

// LedgerStore is the persistence contract the credit ledger depends on.
// ApplyOnramp must insert the transaction row and increment the balance
// as one atomic unit with no partial-commit visibility.
type LedgerStore interface {
	ApplyOnramp(ctx context.Context, txn *model.Transaction) (int64, error)
	GetCredits(ctx context.Context, userID string) (int64, error)
	ListTransactions(ctx context.Context, userID string, limit int) ([]*model.Transaction, error)
}

// LedgerService maintains the relationship between a user's balance and
// the transaction history that justifies it.
type LedgerService struct {
	store   LedgerStore
	metrics metrics.Recorder
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store LedgerStore, recorder metrics.Recorder) *LedgerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LedgerService{
		store:   store,
		metrics: recorder,
	}
}

// Onramp grants the fixed credit amount to userID and records the
// transaction. Returns the created transaction and the new balance.
func (s *LedgerService) Onramp(ctx context.Context, userID string) (*model.Transaction, int64, error) {
	txn := &model.Transaction{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Amount:    model.OnrampCreditAmount,
		Status:    model.TxStatusSuccess,
		CreatedAt: time.Now().UTC(),
	}

	credits, err := s.store.ApplyOnramp(ctx, txn)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("apply onramp: %w", err)
	}

	s.metrics.IncOnrampApplied()
	return txn, credits, nil
}

// GetBalance returns the user's current credits. A missing user row
// reports 0 rather than an error; the account lifecycle should make
// that impossible.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (int64, error) {
	credits, err := s.store.GetCredits(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get credits: %w", err)
	}
	return credits, nil
}

// ListTransactions returns the most recent transactions for userID,
// newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string) ([]*model.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, userID, transactionPageSize)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
