package tree

import (
	"bytes"

	"github.com/flier/cart/internal/node"
)

// Range visits every key k with lo <= k <= hi (lexicographic byte order,
// either bound nil meaning unbounded) in ascending order, calling yield
// with each key and payload until yield returns false or the tree is
// exhausted. Range makes no isolation guarantee stronger than what each
// individual node's optimistic validation gives it: a concurrent Insert or
// Remove elsewhere in the tree restarts the scan from the root, which can
// surface a key twice or skip one added mid-scan (spec.md §4.7's
// non-goal of snapshot isolation).
func Range(root *node.Node256, lo, hi []byte, yield func(key []byte, payload uint64) bool) {
	for {
		stopped, err := rangeOnce(root, lo, hi, yield)
		if err == nil || stopped {
			return
		}
	}
}

func rangeOnce(root *node.Node256, lo, hi []byte, yield func(key []byte, payload uint64) bool) (stopped bool, err error) {
	return walk(root, lo, hi, func(leaf *node.Leaf) bool {
		return yield(leaf.Key(), leaf.Payload())
	})
}

// walk recurses through curr, calling visit on every leaf whose key falls
// within [lo, hi]. Returns stopped=true as soon as visit reports the
// caller is done, unwinding every enclosing call without visiting anything
// further. Any version mismatch anywhere in the subtree instead returns
// err=errRestart, aborting the whole scan back to rangeOnce.
func walk(curr node.Inner, lo, hi []byte, visit func(*node.Leaf) bool) (stopped bool, err error) {
	h := curr.Header()

	version, ok := h.ReadLock()
	if !ok {
		return false, errRestart
	}

	var children []*node.Tag

	curr.Range(0, 255, func(_ byte, slot *node.Child) bool {
		children = append(children, slot.Load())
		return true
	})

	if !h.CheckVersion(version) {
		return false, errRestart
	}

	for _, t := range children {
		if node.IsLeaf(t) {
			leaf := node.AsLeaf(t)
			if withinRange(leaf.Key(), lo, hi) {
				if !visit(leaf) {
					return true, nil
				}
			}
			continue
		}

		stopped, err := walk(node.AsInner(t), lo, hi, visit)
		if err != nil {
			return false, err
		}
		if stopped {
			return true, nil
		}
	}

	return false, nil
}

func withinRange(key, lo, hi []byte) bool {
	if lo != nil && bytes.Compare(key, lo) < 0 {
		return false
	}
	if hi != nil && bytes.Compare(key, hi) > 0 {
		return false
	}
	return true
}
