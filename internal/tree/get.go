package tree

import "github.com/flier/cart/internal/node"

// Get looks up key, returning its payload and true if present. Never
// blocks on a writer: any version conflict restarts the whole descent from
// root (spec.md §4.4).
func Get(root *node.Node256, key []byte) (payload uint64, found bool) {
	for {
		payload, found, err := getOnce(root, key)
		if err == nil {
			return payload, found
		}
	}
}

func getOnce(root *node.Node256, key []byte) (payload uint64, found bool, err error) {
	var curr node.Inner = root

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

		slot := curr.FindChild(key[depth])
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
			return leaf.Payload(), true, nil
		}

		child := node.AsInner(childTag)

		childVersion, ok := child.Header().ReadLock()
		if !ok {
			return 0, false, errRestart
		}

		curr = child
		version = childVersion
		depth++
	}
}
