package node

// Inner is the uniform contract every node variant satisfies (spec.md
// §4.2's per-variant operation table). Tree-level code programs against
// Inner and never switches on Kind itself except to decide whether to
// grow or shrink.
type Inner interface {
	// Header returns the common header embedded in the concrete node.
	Header() *Header

	// FindChild returns the slot for byte b, or nil if no child exists for
	// it. The returned pointer aliases the node's own storage: callers may
	// Load/CompareAndSwap on it directly.
	FindChild(b byte) *Child

	// InsertChild adds a new child for byte b. Precondition: the node is
	// not full and has no existing child for b. Callers hold the write
	// lock.
	InsertChild(b byte, child *tag)

	// RemoveChild deletes the child for byte b. Precondition: a child for
	// b exists. Callers hold the write lock.
	RemoveChild(b byte)

	// AnyChild returns an arbitrary existing child, or nil if the node has
	// none. Used to descend to some leaf for prefix reconstruction (spec.md
	// §4.4).
	AnyChild() *tag

	// Range calls yield for every occupied (byte, *Child) pair whose byte
	// falls within [lo, hi], in ascending key order, stopping early if
	// yield returns false.
	Range(lo, hi byte, yield func(byte, *Child) bool)

	// IsFull reports whether the node has no room for another child.
	IsFull() bool

	// IsUnderFull reports whether the node holds few enough children that
	// it should shrink to the next smaller variant (spec.md §4.2's exact
	// thresholds). Node4 has no smaller variant and always reports false;
	// its single-child collapse is handled by tree-level code instead
	// (spec.md §4.6).
	IsUnderFull() bool

	// CopyInto copies every child of this node into dst in ascending key
	// order. dst must have at least as much free capacity as this node
	// has children.
	CopyInto(dst Inner)
}
