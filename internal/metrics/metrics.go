// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserSignedUp()
	IncUserSignedIn()

	// API key lifecycle metrics
	IncAPIKeyCreated()
	IncAPIKeyToggled()
	IncAPIKeyDeleted()

	// Credit ledger metrics
	IncOnrampApplied()

	// Catalog cache metrics
	IncCatalogCacheHit()
	IncCatalogCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
