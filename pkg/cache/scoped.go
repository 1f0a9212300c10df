package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share
// one Redis or MongoDB backend:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "masks:")
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

func (k *ScopedKeyer) ArtifactKey(assemblyHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(assemblyHash, opts)
}

func (k *ScopedKeyer) PlanKey(fileHash, format string) string {
	return k.prefix + k.inner.PlanKey(fileHash, format)
}
