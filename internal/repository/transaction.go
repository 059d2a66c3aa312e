package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modelgate/modelgate/internal/model"
)

// ApplyOnramp credits a user's balance and records the onramp transaction
// as a single atomic unit. Both writes succeed or both fail; no concurrent
// reader can observe one without the other. The balance update is a relative
// increment, so overlapping onramps for the same user never lose updates.
// Returns the created transaction and the new balance.
func (r *Repository) ApplyOnramp(ctx context.Context, txn *model.Transaction) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin onramp tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	insert := `
		INSERT INTO onramp_transactions (id, user_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insert,
		txn.ID,
		txn.UserID,
		txn.Amount,
		txn.Status,
		txn.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("insert onramp transaction: %w", err)
	}

	var credits int64
	increment := `
		UPDATE users
		SET credits = credits + $2
		WHERE id = $1
		RETURNING credits
	`
	if err := tx.QueryRow(ctx, increment, txn.UserID, txn.Amount).Scan(&credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("increment credits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit onramp tx: %w", err)
	}

	return credits, nil
}

// GetCredits returns the current credit balance for a user.
func (r *Repository) GetCredits(ctx context.Context, userID string) (int64, error) {
	var credits int64
	err := r.pool.QueryRow(ctx, "SELECT credits FROM users WHERE id = $1", userID).Scan(&credits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get credits: %w", err)
	}
	return credits, nil
}

// ListTransactions returns the most recent transactions for a user,
// newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID string, limit int) ([]*model.Transaction, error) {
	query := `
		SELECT id, user_id, amount, status, created_at
		FROM onramp_transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Amount,
			&txn.Status,
			&txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}
