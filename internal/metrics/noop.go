package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserSignedUp is a no-op.
func (n *NoopRecorder) IncUserSignedUp() {}

// IncUserSignedIn is a no-op.
func (n *NoopRecorder) IncUserSignedIn() {}

// IncAPIKeyCreated is a no-op.
func (n *NoopRecorder) IncAPIKeyCreated() {}

// IncAPIKeyToggled is a no-op.
func (n *NoopRecorder) IncAPIKeyToggled() {}

// IncAPIKeyDeleted is a no-op.
func (n *NoopRecorder) IncAPIKeyDeleted() {}

// IncOnrampApplied is a no-op.
func (n *NoopRecorder) IncOnrampApplied() {}

// IncCatalogCacheHit is a no-op.
func (n *NoopRecorder) IncCatalogCacheHit() {}

// IncCatalogCacheMiss is a no-op.
func (n *NoopRecorder) IncCatalogCacheMiss() {}
