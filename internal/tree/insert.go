package tree

import (
	"github.com/flier/cart/epoch"
	"github.com/flier/cart/internal/debug"
	"github.com/flier/cart/internal/node"
)

// Insert associates key with payload. If key already exists and replace is
// false, the existing payload is left untouched; either way the previous
// payload (if any) is returned (spec.md §4.5).
func Insert(root *node.Node256, key []byte, payload uint64, replace bool, mgr *epoch.Manager) (old uint64, hadOld bool) {
	for {
		old, hadOld, err := insertOnce(root, key, payload, replace, mgr)
		if err == nil {
			return old, hadOld
		}
	}
}

func insertOnce(root *node.Node256, key []byte, payload uint64, replace bool, mgr *epoch.Manager) (old uint64, hadOld bool, err error) {
	var parent node.Inner
	var parentVersion uint64
	var parentSlot *node.Child

	curr := node.Inner(root)

	version, ok := curr.Header().ReadLock()
	if !ok {
		return 0, false, errRestart
	}

	depth := 0

	for {
		h := curr.Header()

		if h.PrefixLen() > 0 {
			mismatch := prefixMismatch(curr, key, depth)
			if !h.CheckVersion(version) {
				return 0, false, errRestart
			}

			if mismatch < h.PrefixLen() {
				return splitPrefix(parent, parentVersion, parentSlot, curr, version, key, payload, depth, mismatch, mgr)
			}

			depth += h.PrefixLen()
		}

		debug.Assert(depth < len(key), "tree: insert key is a prefix of an existing key")
		b := key[depth]

		slot := curr.FindChild(b)
		if !h.CheckVersion(version) {
			return 0, false, errRestart
		}

		if slot == nil {
			return insertNewChild(parent, parentVersion, parentSlot, curr, version, b, key, payload, mgr)
		}

		childTag := slot.Load()
		if !h.CheckVersion(version) {
			return 0, false, errRestart
		}

		if node.IsLeaf(childTag) {
			return insertAtLeaf(curr, version, slot, childTag, key, payload, depth+1, replace, mgr)
		}

		child := node.AsInner(childTag)

		childVersion, ok := child.Header().ReadLock()
		if !ok {
			return 0, false, errRestart
		}

		parent, parentVersion, parentSlot = curr, version, slot
		curr, version = child, childVersion
		depth++
	}
}

// splitPrefix handles Insert Case C (spec.md §4.5): key diverges from
// curr's compressed path segment partway through. curr keeps its identity
// and the remainder of its old prefix; a fresh Node4 takes curr's old slot
// in parent, branching between curr and the new leaf.
func splitPrefix(parent node.Inner, parentVersion uint64, parentSlot *node.Child, curr node.Inner, currVersion uint64, key []byte, payload uint64, depth, mismatch int, mgr *epoch.Manager) (old uint64, hadOld bool, err error) {
	debug.Assert(parent != nil, "tree: root never carries a prefix, so it never splits")

	if !parent.Header().UpgradeToWrite(parentVersion) {
		return 0, false, errRestart
	}

	h := curr.Header()
	if !h.UpgradeToWrite(currVersion) {
		parent.Header().WriteUnlock()
		return 0, false, errRestart
	}

	divergeLeaf := anyLeafBelow(curr)
	debug.Assert(divergeLeaf != nil, "tree: a node with a prefix must have at least one descendant leaf")

	splitAt := depth + mismatch
	debug.Assert(splitAt < len(key), "tree: insert key is a prefix of an existing key")
	debug.Assert(splitAt < len(divergeLeaf.Key()), "tree: existing key is a prefix of the insert key")

	splitNode := node.NewNode4(key[depth:splitAt])

	divergeByte := divergeLeaf.Key()[splitAt]
	h.SetPrefix(divergeLeaf.Key()[splitAt+1 : depth+h.PrefixLen()])

	splitNode.InsertChild(divergeByte, node.HeaderTag(h))
	splitNode.InsertChild(key[splitAt], node.LeafTag(node.NewLeaf(cloneKey(key), payload)))

	ok := parentSlot.CompareAndSwap(node.HeaderTag(h), node.HeaderTag(splitNode.Header()))
	debug.Assert(ok, "tree: parent slot changed while locked for write")

	h.WriteUnlock()
	parent.Header().WriteUnlock()

	return 0, false, nil
}

// insertNewChild handles Insert Case D (spec.md §4.5): curr has no child
// for byte b yet. Growing curr to the next variant (if curr is already
// full) replaces curr in parent; otherwise only curr itself is touched.
func insertNewChild(parent node.Inner, parentVersion uint64, parentSlot *node.Child, curr node.Inner, currVersion uint64, b byte, key []byte, payload uint64, mgr *epoch.Manager) (old uint64, hadOld bool, err error) {
	h := curr.Header()

	if !h.UpgradeToWrite(currVersion) {
		return 0, false, errRestart
	}

	newLeaf := node.LeafTag(node.NewLeaf(cloneKey(key), payload))

	if !curr.IsFull() {
		curr.InsertChild(b, newLeaf)
		h.WriteUnlock()
		return 0, false, nil
	}

	debug.Assert(parent != nil, "tree: root is a Node256 and never fills up")

	if !parent.Header().UpgradeToWrite(parentVersion) {
		h.WriteUnlock()
		return 0, false, errRestart
	}

	grown := growTarget(curr)
	h.ClonePrefixInto(grown.Header())
	curr.CopyInto(grown)
	grown.InsertChild(b, newLeaf)

	ok := parentSlot.CompareAndSwap(node.HeaderTag(h), node.HeaderTag(grown.Header()))
	debug.Assert(ok, "tree: parent slot changed while locked for write")

	h.WriteUnlockObsolete()
	parent.Header().WriteUnlock()

	mgr.Advance()
	mgr.Retire(curr)
	mgr.TryReclaim()

	return 0, false, nil
}

// insertAtLeaf handles Insert Cases A/B (spec.md §4.5): the slot curr
// routes byte b to already holds a leaf. Either key matches it exactly
// (an update) or the two keys diverge and must be split into a new Node4.
func insertAtLeaf(curr node.Inner, currVersion uint64, slot *node.Child, oldTag *node.Tag, key []byte, payload uint64, depth int, replace bool, mgr *epoch.Manager) (old uint64, hadOld bool, err error) {
	leaf := node.AsLeaf(oldTag)
	h := curr.Header()

	if leaf.MatchesKey(key) {
		if !replace {
			return leaf.Payload(), true, nil
		}

		if !h.UpgradeToWrite(currVersion) {
			return 0, false, errRestart
		}

		newLeaf := node.NewLeaf(cloneKey(key), payload)
		ok := slot.CompareAndSwap(oldTag, node.LeafTag(newLeaf))
		debug.Assert(ok, "tree: leaf slot changed while locked for write")

		h.WriteUnlock()

		mgr.Advance()
		mgr.Retire(leaf)
		mgr.TryReclaim()

		return leaf.Payload(), true, nil
	}

	if !h.UpgradeToWrite(currVersion) {
		return 0, false, errRestart
	}

	lcp := longestCommonPrefix(key, leaf.Key(), depth)
	debug.Assert(lcp < len(key) && lcp < len(leaf.Key()), "tree: insert key and an existing key are prefixes of one another")

	splitNode := node.NewNode4(key[depth:lcp])
	splitNode.InsertChild(leaf.Key()[lcp], oldTag)
	splitNode.InsertChild(key[lcp], node.LeafTag(node.NewLeaf(cloneKey(key), payload)))

	ok := slot.CompareAndSwap(oldTag, node.HeaderTag(splitNode.Header()))
	debug.Assert(ok, "tree: leaf slot changed while locked for write")

	h.WriteUnlock()

	return 0, false, nil
}

func growTarget(curr node.Inner) node.Inner {
	switch curr.Header().Kind() {
	case node.KindNode4:
		return node.NewNode16(nil)
	case node.KindNode16:
		return node.NewNode48(nil)
	case node.KindNode48:
		return node.NewNode256(nil)
	default:
		panic("tree: node256 never grows")
	}
}

func cloneKey(key []byte) []byte {
	return append([]byte(nil), key...)
}
