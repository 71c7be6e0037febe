package node

import (
	"sync/atomic"

	"github.com/flier/cart/internal/debug"
)

// MaxStoredPrefix bounds how many leading bytes of a compressed path
// segment are kept inline in a node's header. Longer shared prefixes are
// still tracked by length; the remaining bytes are recovered on demand from
// any leaf beneath the node (spec.md §4.1, "pessimistic" prefix recheck).
const MaxStoredPrefix = 10

// version word layout: | type:2 | seq:60 | locked:1 | obsolete:1 |
const (
	versionTypeShift = 62
	versionSeqShift  = 2
	versionSeqMask   = uint64(1)<<60 - 1
	versionLockedBit = uint64(1) << 1
	versionObsolete  = uint64(1)
)

// Header is the fixed-size prefix shared by every internal node variant:
// the optimistic version word, the child count, and the compressed path
// segment leading to this node. Node4, Node16, Node48 and Node256 each
// embed Header as their literal first field so that a *Header obtained via
// [AsHeader] aliases the same memory as the concrete node.
type Header struct {
	tag

	version atomic.Uint64

	// count is read and written only while holding the write lock, or
	// read optimistically and validated against version afterwards - the
	// same benign-race discipline the optimistic lock protocol applies to
	// every other header field (spec.md §4.3). It is never itself
	// accessed with sync/atomic.
	count int

	prefixLen   uint32
	prefixBytes [MaxStoredPrefix]byte
}

func (h *Header) init(kind Kind) {
	h.tag.kind = kind
	h.version.Store(uint64(kind-KindNode4) << versionTypeShift)
}

// Kind returns the node variant, read from the embedded tag. The same
// variant is also encoded in the version word's type field.
func (h *Header) Kind() Kind { return h.tag.kind }

// Count returns the number of occupied child slots. Callers that read
// Count as part of an optimistic traversal must still validate the version
// they captured before trusting it.
func (h *Header) Count() int { return h.count }

func (h *Header) setCount(n int) { h.count = n }
func (h *Header) incCount()      { h.count++ }
func (h *Header) decCount()      { h.count-- }

// Prefix returns the stored leading bytes of the compressed path segment,
// up to MaxStoredPrefix. PrefixLen reports the full logical length, which
// may be longer than len(Prefix()) when the shared prefix exceeds the
// inline storage.
func (h *Header) Prefix() []byte { return h.prefixBytes[:min(int(h.prefixLen), MaxStoredPrefix)] }

// PrefixLen returns the full logical length of the compressed path segment.
func (h *Header) PrefixLen() int { return int(h.prefixLen) }

// SetPrefix stores full as this node's compressed path segment, truncating
// what is kept inline to MaxStoredPrefix while preserving the true length
// in PrefixLen.
func (h *Header) SetPrefix(full []byte) {
	h.prefixLen = uint32(len(full))
	n := copy(h.prefixBytes[:], full)
	for i := n; i < MaxStoredPrefix; i++ {
		h.prefixBytes[i] = 0
	}
}

// ReadLock captures the current version word for an optimistic read.
// Reports restart (ok=false) if the node is currently locked or obsolete.
func (h *Header) ReadLock() (version uint64, ok bool) {
	v := h.version.Load()
	return v, v&(versionLockedBit|versionObsolete) == 0
}

// CheckVersion reports whether the version captured by an earlier ReadLock
// is still current, i.e. no writer has touched the node (or locked it)
// since.
func (h *Header) CheckVersion(version uint64) bool {
	return h.version.Load() == version
}

// UpgradeToWrite attempts to take the write lock from a version previously
// observed via ReadLock. Succeeds only if no other writer has intervened.
func (h *Header) UpgradeToWrite(version uint64) bool {
	return h.version.CompareAndSwap(version, version|versionLockedBit)
}

// WriteUnlock releases a write lock taken via UpgradeToWrite (or
// UpgradeToWrite followed by mutation), bumping the sequence so concurrent
// readers restart.
func (h *Header) WriteUnlock() {
	v := h.version.Load()
	debug.Assert(v&versionLockedBit != 0, "header: WriteUnlock on an unlocked node")
	h.version.Store((v &^ versionLockedBit) + (1 << versionSeqShift))
}

// WriteUnlockObsolete releases a write lock while marking the node
// permanently retired: every later ReadLock/UpgradeToWrite on it fails,
// forcing any reader still holding a pointer to it to restart from the
// root (spec.md §4.3, §5).
func (h *Header) WriteUnlockObsolete() {
	v := h.version.Load()
	debug.Assert(v&versionLockedBit != 0, "header: WriteUnlockObsolete on an unlocked node")
	h.version.Store((v&^versionLockedBit)|versionObsolete|(1<<versionSeqShift))
}

// IsObsolete reports whether the node has been permanently retired.
func (h *Header) IsObsolete() bool {
	return h.version.Load()&versionObsolete != 0
}

// ClonePrefixInto copies this header's compressed path segment into dst
// verbatim, used when growing or shrinking a node to a different variant:
// the new node carries exactly the same prefix as the old one.
func (h *Header) ClonePrefixInto(dst *Header) {
	dst.prefixLen = h.prefixLen
	dst.prefixBytes = h.prefixBytes
}
