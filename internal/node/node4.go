package node

import "github.com/flier/cart/internal/debug"

// Node4 is the smallest node variant, holding up to 4 children in parallel
// sorted arrays. It is the variant every path starts at when a second key
// first diverges from a leaf (spec.md §4.4, Insert Case B).
type Node4 struct {
	Header

	Keys     [4]byte
	Children [4]Child
}

// NewNode4 allocates an empty Node4 carrying the given compressed prefix.
func NewNode4(prefix []byte) *Node4 {
	n := &Node4{}
	n.Header.init(KindNode4)
	n.SetPrefix(prefix)
	return n
}

var _ Inner = (*Node4)(nil)

func (n *Node4) Header() *Header { return &n.Header }

func (n *Node4) IsFull() bool      { return n.Count() == 4 }
func (n *Node4) IsUnderFull() bool { return false }

func (n *Node4) FindChild(b byte) *Child {
	for i := 0; i < n.Count(); i++ {
		if n.Keys[i] == b {
			return &n.Children[i]
		}
	}
	return nil
}

func (n *Node4) InsertChild(b byte, child *tag) {
	debug.Assert(!n.IsFull(), "node4: InsertChild on a full node")

	count := n.Count()

	i := 0
	for ; i < count; i++ {
		if b < n.Keys[i] {
			break
		}
	}

	copy(n.Keys[i+1:count+1], n.Keys[i:count])
	for j := count; j > i; j-- {
		n.Children[j].Store(n.Children[j-1].Load())
	}

	n.Keys[i] = b
	n.Children[i].Store(child)
	n.setCount(count + 1)
}

func (n *Node4) RemoveChild(b byte) {
	count := n.Count()

	i := 0
	for ; i < count; i++ {
		if n.Keys[i] == b {
			break
		}
	}

	debug.Assert(i < count, "node4: RemoveChild on an absent byte")

	copy(n.Keys[i:count-1], n.Keys[i+1:count])
	for j := i; j < count-1; j++ {
		n.Children[j].Store(n.Children[j+1].Load())
	}
	n.Children[count-1].Store(nil)
	n.setCount(count - 1)
}

func (n *Node4) AnyChild() *tag {
	if n.Count() == 0 {
		return nil
	}
	return n.Children[0].Load()
}

func (n *Node4) Range(lo, hi byte, yield func(byte, *Child) bool) {
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

func (n *Node4) CopyInto(dst Inner) {
	for i := 0; i < n.Count(); i++ {
		dst.InsertChild(n.Keys[i], n.Children[i].Load())
	}
}
