package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/repository"
)

// MemStore is an in-memory store implementing the service layer's
// persistence contracts. It returns the repository sentinel errors so
// services observe the same failure surface as with Postgres. Safe for
// concurrent use.
type MemStore struct {
	mu    sync.Mutex
	users map[string]*model.User // by id
	keys  map[string]*model.APIKey
	txns  []*model.Transaction

	Models    []*model.Model
	Providers []*model.Provider
	Mappings  []*model.Mapping
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[string]*model.User),
		keys:  make(map[string]*model.APIKey),
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *MemStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUserByID retrieves a user by id.
func (s *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// CreateAPIKey inserts an API key.
func (s *MemStore) CreateAPIKey(_ context.Context, key *model.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *key
	s.keys[key.ID] = &cp
	return nil
}

// ListAPIKeys returns non-deleted keys for userID, newest first.
func (s *MemStore) ListAPIKeys(_ context.Context, userID string) ([]*model.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []*model.APIKey
	for _, k := range s.keys {
		if k.UserID == userID && !k.Deleted {
			cp := *k
			keys = append(keys, &cp)
		}
	}

	// ULIDs sort lexicographically by creation time.
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID > keys[j].ID })
	return keys, nil
}

// SetAPIKeyDisabled flips the disabled flag on a non-deleted owned key.
func (s *MemStore) SetAPIKeyDisabled(_ context.Context, userID, id string, disabled bool) (*model.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.keys[id]
	if !ok || k.UserID != userID || k.Deleted {
		return nil, repository.ErrAPIKeyNotFound
	}

	k.Disabled = disabled
	cp := *k
	return &cp, nil
}

// SoftDeleteAPIKey marks a non-deleted owned key as deleted.
func (s *MemStore) SoftDeleteAPIKey(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.keys[id]
	if !ok || k.UserID != userID || k.Deleted {
		return repository.ErrAPIKeyNotFound
	}

	k.Deleted = true
	return nil
}

// ApplyOnramp records the transaction and increments the balance atomically
// under the store lock.
func (s *MemStore) ApplyOnramp(_ context.Context, txn *model.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[txn.UserID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}

	cp := *txn
	s.txns = append(s.txns, &cp)
	u.Credits += txn.Amount
	return u.Credits, nil
}

// GetCredits returns the user's balance.
func (s *MemStore) GetCredits(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return u.Credits, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *MemStore) ListTransactions(_ context.Context, userID string, limit int) ([]*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []*model.Transaction
	for _, t := range s.txns {
		if t.UserID == userID {
			cp := *t
			txns = append(txns, &cp)
		}
	}

	sort.Slice(txns, func(i, j int) bool { return txns[i].ID > txns[j].ID })
	if len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// ListModels returns the seeded model fixtures.
func (s *MemStore) ListModels(_ context.Context) ([]*model.Model, error) {
	return s.Models, nil
}

// ListProviders returns the seeded provider fixtures.
func (s *MemStore) ListProviders(_ context.Context) ([]*model.Provider, error) {
	return s.Providers, nil
}

// ListMappings returns the seeded mapping fixtures, optionally filtered.
func (s *MemStore) ListMappings(_ context.Context, modelID int64) ([]*model.Mapping, error) {
	if modelID == 0 {
		return s.Mappings, nil
	}

	var out []*model.Mapping
	for _, m := range s.Mappings {
		if m.Model.ID == modelID {
			out = append(out, m)
		}
	}
	return out, nil
}
