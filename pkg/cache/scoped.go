package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one cache backend without colliding.
//
// Example usage:
//
//	// Keys for the staging render service
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GrammarKey generates a prefixed key for grammar caching.
func (k *ScopedKeyer) GrammarKey(seed uint64, paramsHash string) string {
	return k.prefix + k.inner.GrammarKey(seed, paramsHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(runHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(runHash, opts)
}
