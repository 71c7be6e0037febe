// Package tree implements the optimistic-lock-coupled descent, insert,
// remove and range-scan algorithms that drive the concurrent tree
// (spec.md §4.4-§4.7): restart-from-root on any version conflict, taking
// the write lock on at most the node(s) a mutation actually touches.
//
// Every exported entry point takes the tree's root node directly (always a
// *node.Node256, which never shrinks or grows - see DESIGN.md). Insert and
// Remove also take the *epoch.Manager that retired nodes are handed to. No
// entry point takes a Guard; pinning is left to the caller.
package tree

import "errors"

// errRestart is the optimistic-lock-coupling control signal: some node's
// version changed out from under a reader, or a writer lost a race to take
// a lock. Every exported function recovers it internally and restarts the
// whole operation from the root; it must never escape this package.
var errRestart = errors.New("tree: restart")
