package tree

import "github.com/flier/cart/internal/node"

// checkPrefixOptimistic compares key against h's compressed path segment
// without ever looking past what h stores inline. If the logical prefix is
// longer than what's stored, the unverified tail is assumed to match - a
// false assumption is caught later, either by a version mismatch on this
// node (a concurrent write would have changed the prefix) or by the final
// exact-match check against a leaf's full key (spec.md §4.4's "optimistic
// prefix check").
func checkPrefixOptimistic(h *node.Header, key []byte, depth int) (newDepth int, match bool) {
	stored := h.Prefix()

	avail := len(key) - depth
	n := len(stored)
	if avail < n {
		n = avail
	}

	for i := 0; i < n; i++ {
		if stored[i] != key[depth+i] {
			return depth, false
		}
	}

	full := h.PrefixLen()
	if depth+full > len(key) {
		return depth, false
	}

	return depth + full, true
}

// prefixMismatch is checkPrefixOptimistic's pessimistic counterpart, used
// by Insert: it always resolves the exact mismatch point, even past what
// curr stores inline, by borrowing the full key bytes from some leaf
// beneath curr (every leaf beneath curr shares curr's prefix, so any one
// of them carries the true bytes). Returns the length of the longest
// matching run, which equals curr's PrefixLen() when key matches the
// prefix in full.
func prefixMismatch(curr node.Inner, key []byte, depth int) int {
	h := curr.Header()
	stored := h.Prefix()

	avail := len(key) - depth
	n := len(stored)
	if avail < n {
		n = avail
	}

	i := 0
	for ; i < n; i++ {
		if stored[i] != key[depth+i] {
			return i
		}
	}

	full := h.PrefixLen()
	if full <= len(stored) {
		return i
	}

	leaf := anyLeafBelow(curr)
	if leaf == nil {
		return i
	}

	limit := full
	if depth+limit > len(key) {
		limit = len(key) - depth
	}
	if depth+limit > len(leaf.Key()) {
		limit = len(leaf.Key()) - depth
	}

	for ; i < limit; i++ {
		if leaf.Key()[depth+i] != key[depth+i] {
			return i
		}
	}

	return i
}

// anyLeafBelow follows AnyChild down from curr until it reaches a leaf,
// returning nil only if curr (and therefore this whole subtree) is empty.
func anyLeafBelow(curr node.Inner) *node.Leaf {
	var t = curr.AnyChild()

	for t != nil && !node.IsLeaf(t) {
		t = node.AsInner(t).AnyChild()
	}

	if t == nil {
		return nil
	}

	return node.AsLeaf(t)
}

// longestCommonPrefix returns the first index at or after depth where a
// and b differ, or min(len(a), len(b)) if one is a prefix of the other.
func longestCommonPrefix(a, b []byte, depth int) int {
	n := min(len(a), len(b))

	i := depth
	for i < n && a[i] == b[i] {
		i++
	}

	return i
}
