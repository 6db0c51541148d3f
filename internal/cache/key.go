package cache

import "strings"

// Key identifies a cached resource as an ordered tuple of strings, e.g.
// {"products"} or {"products", "category=abc"}. Keys compare structurally:
// two keys are equal iff every component matches.
type Key []string

// NewKey builds a key from its components.
func NewKey(parts ...string) Key {
	k := make(Key, len(parts))
	copy(k, parts)
	return k
}

// String returns the canonical form used for map indexing. Components are
// joined with a separator that cannot appear in API identifiers.
func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// Equal reports whether both keys have identical components.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}
