package node

import "math"

// MaxPayload is the largest payload id a leaf can carry. The top bit is
// reserved (spec.md §4.1, §7: ErrPayloadOverflow) so that a future inline
// encoding could reuse it without a format change.
const MaxPayload = math.MaxInt64

// Leaf is a terminal tagged value: an encoded key and its associated
// payload id. Leaves are immutable once published - Insert replaces a
// child slot's pointer rather than mutating a leaf in place, so any reader
// holding a *Leaf obtained from a Child slot may read it without
// synchronization for as long as it holds a reference.
type Leaf struct {
	tag

	key     []byte
	payload uint64
}

// NewLeaf allocates a leaf for the given encoded key and payload. payload
// must be below 1<<63; callers are expected to have already rejected
// larger values with ErrPayloadOverflow before calling NewLeaf.
func NewLeaf(key []byte, payload uint64) *Leaf {
	l := &Leaf{key: key, payload: payload}
	l.tag.kind = KindLeaf
	return l
}

// Kind returns KindLeaf, the kind every Leaf is tagged with.
func (l *Leaf) Kind() Kind { return l.tag.kind }

// Key returns the leaf's full encoded key.
func (l *Leaf) Key() []byte { return l.key }

// Payload returns the leaf's associated payload id.
func (l *Leaf) Payload() uint64 { return l.payload }

// MatchesKey reports whether the leaf's encoded key equals key exactly -
// the final check every descent makes after optimistic navigation lands on
// a leaf (spec.md §4.4), since path compression and lazy expansion only
// guarantee a matching prefix, not a matching key.
func (l *Leaf) MatchesKey(key []byte) bool {
	if len(l.key) != len(key) {
		return false
	}

	for i := range key {
		if l.key[i] != key[i] {
			return false
		}
	}

	return true
}
