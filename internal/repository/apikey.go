package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modelgate/modelgate/internal/model"
)

// Common errors for API key repository operations.
var (
	ErrAPIKeyNotFound = errors.New("API key not found")
)

// CreateAPIKey inserts a new API key into the database.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, name, secret, disabled, deleted, credits_consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.UserID,
		key.Name,
		key.Secret,
		key.Disabled,
		key.Deleted,
		key.CreditsConsumed,
		key.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// ListAPIKeys retrieves all non-deleted API keys for a user, newest first.
// ULIDs sort lexicographically by creation time, so descending id order
// is descending creation order.
func (r *Repository) ListAPIKeys(ctx context.Context, userID string) ([]*model.APIKey, error) {
	query := `
		SELECT id, user_id, name, secret, disabled, deleted, last_used_at, credits_consumed, created_at
		FROM api_keys
		WHERE user_id = $1 AND NOT deleted
		ORDER BY id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return keys, nil
}

// SetAPIKeyDisabled flips the disabled flag on a non-deleted key owned by
// userID and returns the updated record. The update is a single conditional
// statement so overlapping requests cannot observe a partial state.
// Returns ErrAPIKeyNotFound when no such key exists; ownership violations
// are indistinguishable from missing ids.
func (r *Repository) SetAPIKeyDisabled(ctx context.Context, userID, id string, disabled bool) (*model.APIKey, error) {
	query := `
		UPDATE api_keys
		SET disabled = $3
		WHERE id = $1 AND user_id = $2 AND NOT deleted
		RETURNING id, user_id, name, secret, disabled, deleted, last_used_at, credits_consumed, created_at
	`

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, id, userID, disabled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to update API key: %w", err)
	}

	return key, nil
}

// SoftDeleteAPIKey marks a non-deleted key owned by userID as deleted.
// The row is retained for audit history but excluded from listings.
// Returns ErrAPIKeyNotFound when no such key exists, including when the
// key was already deleted.
func (r *Repository) SoftDeleteAPIKey(ctx context.Context, userID, id string) error {
	query := `
		UPDATE api_keys
		SET deleted = TRUE
		WHERE id = $1 AND user_id = $2 AND NOT deleted
	`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to soft delete API key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}

// scanAPIKey scans a single row into an APIKey model.
func scanAPIKey(row pgx.Row) (*model.APIKey, error) {
	var key model.APIKey
	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Name,
		&key.Secret,
		&key.Disabled,
		&key.Deleted,
		&key.LastUsedAt,
		&key.CreditsConsumed,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
