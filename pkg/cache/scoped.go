package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI and server scope
// keys by build so a new release never serves results computed by an old one:
//
//	keyer := NewScopedKeyer(nil, buildinfo.CacheScope())
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) RouteKey(graphHash string, from, to int) string {
	return k.prefix + k.inner.RouteKey(graphHash, from, to)
}

func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}

// Prefix returns the scope prepended to every key.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

var _ Keyer = (*ScopedKeyer)(nil)
