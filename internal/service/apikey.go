package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/repository"
)

// MaxKeyNameLength is the longest accepted API key name.
const MaxKeyNameLength = 100

// API key service errors.
var (
	ErrKeyNameRequired = errors.New("name is required")
	ErrKeyNameTooLong  = errors.New("name must be at most 100 characters")
	ErrKeyNotFound     = errors.New("API key not found")
)

// KeyStore is the persistence contract the API key registry depends on.
// SetAPIKeyDisabled and SoftDeleteAPIKey must be atomic conditional
// updates scoped to the owning user.
type KeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	ListAPIKeys(ctx context.Context, userID string) ([]*model.APIKey, error)
	SetAPIKeyDisabled(ctx context.Context, userID, id string, disabled bool) (*model.APIKey, error)
	SoftDeleteAPIKey(ctx context.Context, userID, id string) error
}

// APIKeyService manages the set of API keys belonging to one user,
// enforcing ownership and soft-delete visibility.
type APIKeyService struct {
	store   KeyStore
	metrics metrics.Recorder
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(store KeyStore, recorder metrics.Recorder) *APIKeyService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &APIKeyService{
		store:   store,
		metrics: recorder,
	}
}

// Create generates a new key for userID. The returned record carries the
// plaintext secret; this is the only call that produces it.
func (s *APIKeyService) Create(ctx context.Context, userID, name string) (*model.APIKey, error) {
	if name == "" {
		return nil, ErrKeyNameRequired
	}
	if len(name) > MaxKeyNameLength {
		return nil, ErrKeyNameTooLong
	}

	secret, err := auth.GenerateKeySecret()
	if err != nil {
		return nil, fmt.Errorf("generate API key secret: %w", err)
	}

	key := &model.APIKey{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Name:      name,
		Secret:    secret,
		Disabled:  false,
		Deleted:   false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("create API key: %w", err)
	}

	s.metrics.IncAPIKeyCreated()
	return key, nil
}

// List returns all non-deleted keys for userID, newest first.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]*model.APIKey, error) {
	keys, err := s.store.ListAPIKeys(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list API keys: %w", err)
	}
	return keys, nil
}

// SetDisabled flips the disabled flag on a key owned by userID and
// returns the updated record. Setting the current value again is a
// successful no-op. Missing ids and other users' ids both yield
// ErrKeyNotFound so key existence never leaks across accounts.
func (s *APIKeyService) SetDisabled(ctx context.Context, userID, id string, disabled bool) (*model.APIKey, error) {
	key, err := s.store.SetAPIKeyDisabled(ctx, userID, id, disabled)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("update API key: %w", err)
	}

	s.metrics.IncAPIKeyToggled()
	return key, nil
}

// SoftDelete hides a key from all subsequent listings while retaining the
// row for audit history. Deletion is not reversible through any exposed
// operation; a second delete reports ErrKeyNotFound.
func (s *APIKeyService) SoftDelete(ctx context.Context, userID, id string) error {
	if err := s.store.SoftDeleteAPIKey(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("delete API key: %w", err)
	}

	s.metrics.IncAPIKeyDeleted()
	return nil
}
