package node

import (
	"github.com/flier/cart/internal/debug"
	"github.com/flier/cart/internal/simd"
)

// Node16 holds up to 16 children in the same sorted-array layout as Node4,
// scaled up. FindChild and InsertChild go through internal/simd's search
// seams rather than a hand-rolled loop, so a future vectorized build can
// drop in without touching this file (spec.md §4.2 permits a scalar
// fallback, which is all every build tag resolves to today).
type Node16 struct {
	Header

	Keys     [16]byte
	Children [16]Child
}

// NewNode16 allocates an empty Node16 carrying the given compressed prefix.
func NewNode16(prefix []byte) *Node16 {
	n := &Node16{}
	n.Header.init(KindNode16)
	n.SetPrefix(prefix)
	return n
}

var _ Inner = (*Node16)(nil)

func (n *Node16) Header() *Header { return &n.Header }

func (n *Node16) IsFull() bool      { return n.Count() == 16 }
func (n *Node16) IsUnderFull() bool { return n.Count() < 3 }

func (n *Node16) FindChild(b byte) *Child {
	if i := simd.FindKeyIndex(&n.Keys, n.Count(), b); i >= 0 {
		return &n.Children[i]
	}
	return nil
}

func (n *Node16) InsertChild(b byte, child *tag) {
	debug.Assert(!n.IsFull(), "node16: InsertChild on a full node")

	count := n.Count()

	i := simd.FindInsertPosition(&n.Keys, count, b)
	if i < 0 {
		i = count
	} else {
		copy(n.Keys[i+1:count+1], n.Keys[i:count])
		for j := count; j > i; j-- {
			n.Children[j].Store(n.Children[j-1].Load())
		}
	}

	n.Keys[i] = b
	n.Children[i].Store(child)
	n.setCount(count + 1)
}

func (n *Node16) RemoveChild(b byte) {
	count := n.Count()

	i := simd.FindKeyIndex(&n.Keys, count, b)
	debug.Assert(i >= 0, "node16: RemoveChild on an absent byte")

	copy(n.Keys[i:count-1], n.Keys[i+1:count])
	for j := i; j < count-1; j++ {
		n.Children[j].Store(n.Children[j+1].Load())
	}
	n.Children[count-1].Store(nil)
	n.setCount(count - 1)
}

func (n *Node16) AnyChild() *tag {
	if n.Count() == 0 {
		return nil
	}
	return n.Children[0].Load()
}

func (n *Node16) Range(lo, hi byte, yield func(byte, *Child) bool) {
	for i := 0; i < n.Count(); i++ {
		if n.Keys[i] < lo {
			continue
		}
		if n.Keys[i] > hi {
			return
		}
		if !yield(n.Keys[i], &n.Children[i]) {
			return
		}
	}
}

func (n *Node16) CopyInto(dst Inner) {
	for i := 0; i < n.Count(); i++ {
		dst.InsertChild(n.Keys[i], n.Children[i].Load())
	}
}
