// Package cart implements a concurrent Adaptive Radix Tree: an ordered
// in-memory index mapping keys to opaque 63-bit payload identifiers,
// supporting concurrent point lookup, insertion, update, removal, and
// bounded range scan from many goroutines without global locks.
//
// Every operation must run while the caller holds a [Guard] obtained from
// [Tree.Pin], which keeps nodes the operation observes alive against
// concurrent reclamation for its duration. Guards are cheap to acquire and
// release but must not be held across unrelated blocking work, since a
// long-lived pin prevents the epoch reclaimer from making progress on
// every node retired since.
package cart

import (
	"github.com/flier/cart/epoch"
	"github.com/flier/cart/internal/debug"
	"github.com/flier/cart/internal/node"
	"github.com/flier/cart/internal/tree"
)

// Guard pins the calling goroutine into the current reclamation epoch for
// the duration of one or more tree operations. Obtain one via [Tree.Pin]
// and release it with Unpin once done.
type Guard = epoch.Guard

// Tree is a concurrent index from keys of type K to 63-bit payload ids.
// The zero value is not usable; construct one with [New].
type Tree[K Key] struct {
	root  *node.Node256
	epoch *epoch.Manager
}

// New returns an empty Tree.
func New[K Key]() *Tree[K] {
	return &Tree[K]{
		root:  node.NewNode256(nil),
		epoch: epoch.NewManager(),
	}
}

// Pin enters a reclamation-guarded region. Every other Tree method
// requires a live Guard obtained this way.
func (t *Tree[K]) Pin() *Guard { return t.epoch.Pin() }

// Insert associates key with payload, returning the previous payload (if
// any) that was replaced. Fails with [ErrPayloadOverflow] if payload's
// reserved high bit is set; no other input can make Insert fail.
func (t *Tree[K]) Insert(key K, payload uint64, guard *Guard) (old uint64, hadOld bool, err error) {
	debug.Assert(guard != nil, "cart: Insert called without a Guard from Pin")

	if payload > node.MaxPayload {
		return 0, false, ErrPayloadOverflow
	}

	old, hadOld = tree.Insert(t.root, key.EncodedBytes(), payload, true, t.epoch)
	return old, hadOld, nil
}

// Get returns key's associated payload and true, or (0, false) if key is
// absent.
func (t *Tree[K]) Get(key K, guard *Guard) (payload uint64, found bool) {
	debug.Assert(guard != nil, "cart: Get called without a Guard from Pin")

	return tree.Get(t.root, key.EncodedBytes())
}

// Remove deletes key's entry if present, returning its payload and true.
func (t *Tree[K]) Remove(key K, guard *Guard) (payload uint64, found bool) {
	debug.Assert(guard != nil, "cart: Remove called without a Guard from Pin")

	return tree.Remove(t.root, key.EncodedBytes(), t.epoch)
}

// Range visits every stored entry whose encoded key k satisfies
// lo.EncodedBytes() <= k <= hi.EncodedBytes(), in ascending order, until
// yield returns false or the tree is exhausted. Range makes no stronger
// isolation guarantee than each node's own optimistic validation: a
// concurrent Insert or Remove elsewhere in the tree can cause the scan to
// restart from the root, potentially surfacing an entry twice or missing
// one that was added mid-scan.
func (t *Tree[K]) Range(lo, hi K, guard *Guard, yield func(key []byte, payload uint64) bool) {
	debug.Assert(guard != nil, "cart: Range called without a Guard from Pin")

	tree.Range(t.root, lo.EncodedBytes(), hi.EncodedBytes(), yield)
}
