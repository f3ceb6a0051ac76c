package query

import "strings"

// Key identifies a cached resource as ordered segments, most general first:
//
//	query.NewKey("spendings", "skip=0", "limit=100")
//
// Invalidating a prefix such as NewKey("spendings") reaches every page.
type Key []string

func NewKey(segments ...string) Key {
	return Key(segments)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// id is the map key. The unit separator cannot collide with segment text the
// way "/" can.
func (k Key) id() string {
	return strings.Join(k, "\x1f")
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// With returns a new key with segments appended.
func (k Key) With(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}
