package node

import "github.com/flier/cart/internal/debug"

// Node48 holds up to 48 children using a sparse index: Keys[b] is a
// 1-based index into Children, with 0 meaning "no child for byte b". This
// lets a byte value of 0 itself be a valid key without being confused with
// an empty slot.
type Node48 struct {
	Header

	Keys     [256]byte
	Children [48]Child
}

// NewNode48 allocates an empty Node48 carrying the given compressed prefix.
func NewNode48(prefix []byte) *Node48 {
	n := &Node48{}
	n.Header.init(KindNode48)
	n.SetPrefix(prefix)
	return n
}

var _ Inner = (*Node48)(nil)

func (n *Node48) Header() *Header { return &n.Header }

func (n *Node48) IsFull() bool      { return n.Count() == 48 }
func (n *Node48) IsUnderFull() bool { return n.Count() < 12 }

func (n *Node48) FindChild(b byte) *Child {
	if idx := n.Keys[b]; idx != 0 {
		return &n.Children[idx-1]
	}
	return nil
}

func (n *Node48) InsertChild(b byte, child *tag) {
	if idx := n.Keys[b]; idx != 0 {
		n.Children[idx-1].Store(child)
		return
	}

	debug.Assert(!n.IsFull(), "node48: InsertChild on a full node")

	// Scan for the first free slot starting at index 0. An implementation
	// that instead started scanning at Count() would wrongly assume the
	// first Count() slots are always occupied, which stops holding once
	// RemoveChild has freed an interior slot.
	var i byte
	for ; i < 48; i++ {
		if n.Children[i].IsEmpty() {
			break
		}
	}

	n.Keys[b] = i + 1
	n.Children[i].Store(child)
	n.setCount(n.Count() + 1)
}

func (n *Node48) RemoveChild(b byte) {
	idx := n.Keys[b]
	debug.Assert(idx != 0, "node48: RemoveChild on an absent byte")

	n.Keys[b] = 0
	n.Children[idx-1].Store(nil)
	n.setCount(n.Count() - 1)
}

func (n *Node48) AnyChild() *tag {
	for i := 0; i < 256; i++ {
		if idx := n.Keys[i]; idx != 0 {
			return n.Children[idx-1].Load()
		}
	}
	return nil
}

func (n *Node48) Range(lo, hi byte, yield func(byte, *Child) bool) {
	for b := int(lo); b <= int(hi); b++ {
		if idx := n.Keys[b]; idx != 0 {
			if !yield(byte(b), &n.Children[idx-1]) {
				return
			}
		}
	}
}

func (n *Node48) CopyInto(dst Inner) {
	for b := 0; b < 256; b++ {
		if idx := n.Keys[b]; idx != 0 {
			dst.InsertChild(byte(b), n.Children[idx-1].Load())
		}
	}
}
