package node

import "github.com/flier/cart/internal/debug"

// Node256 holds a direct array of 256 children, one per possible byte
// value, and never needs to grow further. Occupancy is read from pointer
// nullness; Header.count is still tracked incrementally alongside it so
// IsFull/IsUnderFull stay O(1) rather than rescanning all 256 slots.
type Node256 struct {
	Header

	Children [256]Child
}

// NewNode256 allocates an empty Node256 carrying the given compressed
// prefix.
func NewNode256(prefix []byte) *Node256 {
	n := &Node256{}
	n.Header.init(KindNode256)
	n.SetPrefix(prefix)
	return n
}

var _ Inner = (*Node256)(nil)

func (n *Node256) Header() *Header { return &n.Header }

func (n *Node256) IsFull() bool      { return n.Count() == 256 }
func (n *Node256) IsUnderFull() bool { return n.Count() < 37 }

func (n *Node256) FindChild(b byte) *Child {
	if n.Children[b].IsEmpty() {
		return nil
	}
	return &n.Children[b]
}

func (n *Node256) InsertChild(b byte, child *tag) {
	if n.Children[b].IsEmpty() {
		debug.Assert(!n.IsFull(), "node256: InsertChild on a full node")
		n.setCount(n.Count() + 1)
	}
	n.Children[b].Store(child)
}

func (n *Node256) RemoveChild(b byte) {
	debug.Assert(!n.Children[b].IsEmpty(), "node256: RemoveChild on an absent byte")
	n.Children[b].Store(nil)
	n.setCount(n.Count() - 1)
}

func (n *Node256) AnyChild() *tag {
	for i := 0; i < 256; i++ {
		if t := n.Children[i].Load(); t != nil {
			return t
		}
	}
	return nil
}

func (n *Node256) Range(lo, hi byte, yield func(byte, *Child) bool) {
	for b := int(lo); b <= int(hi); b++ {
		if !n.Children[b].IsEmpty() {
			if !yield(byte(b), &n.Children[b]) {
				return
			}
		}
	}
}

func (n *Node256) CopyInto(dst Inner) {
	for b := 0; b < 256; b++ {
		if t := n.Children[b].Load(); t != nil {
			dst.InsertChild(byte(b), t)
		}
	}
}
