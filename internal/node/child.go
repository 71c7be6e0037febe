package node

import "sync/atomic"

// Child is a single tagged child slot: a machine-word-sized pointer that
// either targets a Leaf or a smaller/bigger internal node, swapped
// atomically (spec.md §4.1). A zero Child is an empty slot.
type Child struct {
	ptr atomic.Pointer[tag]
}

// Load returns the tagged pointer currently in the slot, or nil if empty.
func (c *Child) Load() *tag { return c.ptr.Load() }

// Store publishes a new tagged pointer into the slot. Used when populating
// a freshly allocated node, and by the node variants' InsertChild and
// RemoveChild, whose callers hold the node's write lock.
func (c *Child) Store(t *tag) { c.ptr.Store(t) }

// CompareAndSwap atomically replaces the slot's contents, failing if
// another writer has already changed it. Used by Insert's "change" and
// "grow" cases, and by Remove's single-child collapse case, to publish a
// replacement without taking the child's own write lock (spec.md §4.4-4.6).
func (c *Child) CompareAndSwap(old, new *tag) bool {
	return c.ptr.CompareAndSwap(old, new)
}

// IsEmpty reports whether the slot holds no child.
func (c *Child) IsEmpty() bool { return c.ptr.Load() == nil }

// LeafTag and HeaderTag adapt a concrete *Leaf or *Header pointer into the
// *tag that a Child slot stores. Because tag is each type's literal first
// field, taking its address is ordinary, safe Go - no unsafe.Pointer is
// needed in this direction; only the reverse (AsLeaf, AsHeader, AsInner)
// requires reinterpretation.
func LeafTag(l *Leaf) *tag     { return &l.tag }
func HeaderTag(h *Header) *tag { return &h.tag }
