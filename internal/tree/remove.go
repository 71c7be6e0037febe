package tree

import (
	"github.com/flier/cart/epoch"
	"github.com/flier/cart/internal/debug"
	"github.com/flier/cart/internal/node"
)

// Remove deletes key if present, returning its payload and true. Shrinking
// an undersized node or collapsing a one-child Node4 back into a
// compressed path is opportunistic: if the lock needed for either can't be
// taken without blocking, Remove still reports the deletion and simply
// leaves the tree a little less compact until some later operation
// revisits the same spot (spec.md §4.6).
func Remove(root *node.Node256, key []byte, mgr *epoch.Manager) (old uint64, hadOld bool) {
	for {
		old, hadOld, err := removeOnce(root, key, mgr)
		if err == nil {
			return old, hadOld
		}
	}
}

func removeOnce(root *node.Node256, key []byte, mgr *epoch.Manager) (old uint64, hadOld bool, err error) {
	var parent node.Inner
	var parentVersion uint64
	var parentSlot *node.Child // slot inside parent that points to curr
	var entryDepth int         // depth of the branch byte from parent to curr; curr's own prefix (if any) begins at entryDepth+1

	curr := node.Inner(root)

	version, ok := curr.Header().ReadLock()
	if !ok {
		return 0, false, errRestart
	}

	depth := 0

	for {
		h := curr.Header()

		if h.PrefixLen() > 0 {
			newDepth, match := checkPrefixOptimistic(h, key, depth)
			if !match {
				if !h.CheckVersion(version) {
					return 0, false, errRestart
				}
				return 0, false, nil
			}
			depth = newDepth
		}

		if depth >= len(key) {
			if !h.CheckVersion(version) {
				return 0, false, errRestart
			}
			return 0, false, nil
		}

		b := key[depth]

		slot := curr.FindChild(b)
		if !h.CheckVersion(version) {
			return 0, false, errRestart
		}

		if slot == nil {
			return 0, false, nil
		}

		childTag := slot.Load()
		if !h.CheckVersion(version) {
			return 0, false, errRestart
		}

		if node.IsLeaf(childTag) {
			leaf := node.AsLeaf(childTag)
			if leaf == nil || !leaf.MatchesKey(key) {
				return 0, false, nil
			}

			return removeLeaf(
				parent, parentVersion, parentSlot, b, entryDepth,
				curr, version, leaf, mgr,
			)
		}

		child := node.AsInner(childTag)

		childVersion, ok := child.Header().ReadLock()
		if !ok {
			return 0, false, errRestart
		}

		parent, parentVersion, parentSlot, entryDepth = curr, version, slot, depth
		curr, version = child, childVersion
		depth++
	}
}

// removeLeaf deletes leaf from curr's child slot (reached via byte
// entryByte) and, when the removal leaves curr eligible to shrink or
// collapse, attempts that too. parent is curr's own parent and parentSlot
// is the slot inside parent that points to curr - needed only when curr
// itself must be replaced wholesale in parent's slot.
func removeLeaf(
	parent node.Inner, parentVersion uint64, parentSlot *node.Child, entryByte byte, entryDepth int,
	curr node.Inner, currVersion uint64, leaf *node.Leaf, mgr *epoch.Manager,
) (old uint64, hadOld bool, err error) {
	h := curr.Header()
	if !h.UpgradeToWrite(currVersion) {
		return 0, false, errRestart
	}

	curr.RemoveChild(entryByte)
	h.WriteUnlock()

	mgr.Advance()
	mgr.Retire(leaf)
	mgr.TryReclaim()

	payload := leaf.Payload()

	// parent is nil only when curr is the root: a Node256 that never
	// collapses or shrinks (spec.md §4.6 - the root always stays Node256).
	if parent == nil {
		return payload, true, nil
	}

	if curr.Header().Kind() == node.KindNode4 && curr.Header().Count() == 1 {
		collapseNode4(parent, parentVersion, parentSlot, curr, entryDepth, mgr)
		return payload, true, nil
	}

	if curr.IsUnderFull() {
		shrinkNode(parent, parentVersion, parentSlot, curr, mgr)
		return payload, true, nil
	}

	return payload, true, nil
}

// collapseNode4 merges a Node4 left with exactly one child back into its
// parent's compressed path: parent's slot becomes the child directly, with
// its prefix extended to cover curr's old prefix, the branching byte, and
// the child's own prefix (spec.md §4.6, path decompression's inverse).
// entryDepth is the depth of the branch byte from parent to curr, so curr's
// own (pre-removal) prefix begins at entryDepth+1. Opportunistic: if
// parent's write lock can't be taken, curr is simply left as a single-child
// Node4 rather than restarting the whole Remove.
func collapseNode4(parent node.Inner, parentVersion uint64, parentSlot *node.Child, curr node.Inner, entryDepth int, mgr *epoch.Manager) {
	if !parent.Header().UpgradeToWrite(parentVersion) {
		return
	}

	currVersion, ok := curr.Header().ReadLock()
	if !ok {
		parent.Header().WriteUnlock()
		return
	}
	if !curr.Header().UpgradeToWrite(currVersion) {
		parent.Header().WriteUnlock()
		return
	}
	if curr.Header().Count() != 1 {
		curr.Header().WriteUnlock()
		parent.Header().WriteUnlock()
		return
	}

	b, childSlot := soleChild(curr)
	debug.Assert(childSlot != nil, "tree: collapseNode4 called on a node without exactly one child")

	childTag := childSlot.Load()

	if node.IsLeaf(childTag) {
		ok := parentSlot.CompareAndSwap(node.HeaderTag(curr.Header()), childTag)
		debug.Assert(ok, "tree: parent slot changed while locked for write")

		curr.Header().WriteUnlockObsolete()
		parent.Header().WriteUnlock()

		mgr.Advance()
		mgr.Retire(curr)
		mgr.TryReclaim()
		return
	}

	child := node.AsInner(childTag)

	childHeaderVersion, ok := child.Header().ReadLock()
	if !ok {
		curr.Header().WriteUnlock()
		parent.Header().WriteUnlock()
		return
	}
	if !child.Header().UpgradeToWrite(childHeaderVersion) {
		curr.Header().WriteUnlock()
		parent.Header().WriteUnlock()
		return
	}

	leaf := anyLeafBelow(child)
	if leaf == nil {
		// Concurrent removals emptied child's subtree; leave curr as it is.
		child.Header().WriteUnlock()
		curr.Header().WriteUnlock()
		parent.Header().WriteUnlock()
		return
	}

	oldPrefixEnd := entryDepth + 1 + curr.Header().PrefixLen()
	newPrefixLen := curr.Header().PrefixLen() + 1 + child.Header().PrefixLen()
	merged := make([]byte, newPrefixLen)
	n := copy(merged, leaf.Key()[entryDepth+1:oldPrefixEnd])
	merged[n] = b
	n++
	copy(merged[n:], leaf.Key()[oldPrefixEnd+1:oldPrefixEnd+1+child.Header().PrefixLen()])

	child.Header().SetPrefix(merged)

	ok2 := parentSlot.CompareAndSwap(node.HeaderTag(curr.Header()), node.HeaderTag(child.Header()))
	debug.Assert(ok2, "tree: parent slot changed while locked for write")

	child.Header().WriteUnlock()
	curr.Header().WriteUnlockObsolete()
	parent.Header().WriteUnlock()

	mgr.Advance()
	mgr.Retire(curr)
	mgr.TryReclaim()
}

// shrinkNode replaces curr, once it has dropped below its variant's
// occupancy floor, with the next smaller variant holding the same
// children and prefix. Opportunistic like collapseNode4: if parent's
// write lock can't be taken, curr is left as an under-occupied node of
// its current (larger) variant.
func shrinkNode(parent node.Inner, parentVersion uint64, parentSlot *node.Child, curr node.Inner, mgr *epoch.Manager) {
	if !parent.Header().UpgradeToWrite(parentVersion) {
		return
	}

	currVersion, ok := curr.Header().ReadLock()
	if !ok {
		parent.Header().WriteUnlock()
		return
	}
	h := curr.Header()
	if !h.UpgradeToWrite(currVersion) {
		parent.Header().WriteUnlock()
		return
	}
	if !curr.IsUnderFull() {
		h.WriteUnlock()
		parent.Header().WriteUnlock()
		return
	}

	shrunk := shrinkTarget(curr)
	h.ClonePrefixInto(shrunk.Header())
	curr.CopyInto(shrunk)

	ok2 := parentSlot.CompareAndSwap(node.HeaderTag(h), node.HeaderTag(shrunk.Header()))
	debug.Assert(ok2, "tree: parent slot changed while locked for write")

	h.WriteUnlockObsolete()
	parent.Header().WriteUnlock()

	mgr.Advance()
	mgr.Retire(curr)
	mgr.TryReclaim()
}

func shrinkTarget(curr node.Inner) node.Inner {
	switch curr.Header().Kind() {
	case node.KindNode256:
		return node.NewNode48(nil)
	case node.KindNode48:
		return node.NewNode16(nil)
	case node.KindNode16:
		return node.NewNode4(nil)
	default:
		panic("tree: node4 never shrinks, it collapses instead")
	}
}

// soleChild returns the single occupied (byte, *Child) pair of a node
// known to have exactly one child.
func soleChild(curr node.Inner) (b byte, slot *node.Child) {
	curr.Range(0, 255, func(rb byte, rslot *node.Child) bool {
		b, slot = rb, rslot
		return false
	})
	return b, slot
}
