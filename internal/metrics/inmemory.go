package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersSignedUp      uint64
	UsersSignedIn      uint64
	APIKeysCreated     uint64
	APIKeysToggled     uint64
	APIKeysDeleted     uint64
	OnrampsApplied     uint64
	CatalogCacheHits   uint64
	CatalogCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersSignedUp      uint64
	usersSignedIn      uint64
	apiKeysCreated     uint64
	apiKeysToggled     uint64
	apiKeysDeleted     uint64
	onrampsApplied     uint64
	catalogCacheHits   uint64
	catalogCacheMisses uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersSignedUp:      atomic.LoadUint64(&m.usersSignedUp),
		UsersSignedIn:      atomic.LoadUint64(&m.usersSignedIn),
		APIKeysCreated:     atomic.LoadUint64(&m.apiKeysCreated),
		APIKeysToggled:     atomic.LoadUint64(&m.apiKeysToggled),
		APIKeysDeleted:     atomic.LoadUint64(&m.apiKeysDeleted),
		OnrampsApplied:     atomic.LoadUint64(&m.onrampsApplied),
		CatalogCacheHits:   atomic.LoadUint64(&m.catalogCacheHits),
		CatalogCacheMisses: atomic.LoadUint64(&m.catalogCacheMisses),
	}
}

// IncUserSignedUp increments the signup counter.
func (m *InMemoryRecorder) IncUserSignedUp() {
	atomic.AddUint64(&m.usersSignedUp, 1)
}

// IncUserSignedIn increments the signin counter.
func (m *InMemoryRecorder) IncUserSignedIn() {
	atomic.AddUint64(&m.usersSignedIn, 1)
}

// IncAPIKeyCreated increments the key created counter.
func (m *InMemoryRecorder) IncAPIKeyCreated() {
	atomic.AddUint64(&m.apiKeysCreated, 1)
}

// IncAPIKeyToggled increments the key toggled counter.
func (m *InMemoryRecorder) IncAPIKeyToggled() {
	atomic.AddUint64(&m.apiKeysToggled, 1)
}

// IncAPIKeyDeleted increments the key deleted counter.
func (m *InMemoryRecorder) IncAPIKeyDeleted() {
	atomic.AddUint64(&m.apiKeysDeleted, 1)
}

// IncOnrampApplied increments the onramp counter.
func (m *InMemoryRecorder) IncOnrampApplied() {
	atomic.AddUint64(&m.onrampsApplied, 1)
}

// IncCatalogCacheHit increments the catalog cache hit counter.
func (m *InMemoryRecorder) IncCatalogCacheHit() {
	atomic.AddUint64(&m.catalogCacheHits, 1)
}

// IncCatalogCacheMiss increments the catalog cache miss counter.
func (m *InMemoryRecorder) IncCatalogCacheMiss() {
	atomic.AddUint64(&m.catalogCacheMisses, 1)
}
