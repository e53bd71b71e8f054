package cache

// ScopedKeyer wraps a Keyer with a prefix so that several buildings can
// share one cache backend.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "building:annex:")
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

// RouteKey generates a prefixed route key.
func (k *ScopedKeyer) RouteKey(graphHash, from, to string, opts PolicyKeyOpts) string {
	return k.prefix + k.inner.RouteKey(graphHash, from, to, opts)
}

// RestroomKey generates a prefixed restroom key.
func (k *ScopedKeyer) RestroomKey(graphHash, from, category string, opts PolicyKeyOpts) string {
	return k.prefix + k.inner.RestroomKey(graphHash, from, category, opts)
}
