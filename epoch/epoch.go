// Package epoch implements epoch-based reclamation for the concurrent tree:
// a global epoch counter, a per-goroutine record of the epoch a reader last
// entered at, and a retire-then-reclaim-when-safe queue (spec.md §5).
//
// Go's garbage collector already owns the actual freeing of memory; what
// this package adds is the missing piece the GC can't provide on its own -
// a guarantee that a node unlinked from the tree is not reused (recycled
// into a different logical node at the same address) while some reader
// that read a pointer to it before the unlink might still be dereferencing
// it. Retirement only drops the last reference this package itself holds;
// the GC reclaims the memory once nothing else points to it either.
package epoch

import (
	"sync"
	"sync/atomic"

	"github.com/dolthub/maphash"
	"github.com/timandy/routine"

	"github.com/flier/cart/internal/xsync"
)

// shardCount controls how many independent retirement queues Retire and
// TryReclaim spread their work across, so that writers on different
// goroutines don't serialize on one mutex. Chosen as a small power of two;
// this is not a tunable a caller needs to see.
const shardCount = 16

var shardHasher = maphash.NewHasher[uint64]()

// Manager owns the global epoch counter, the table of currently pinned
// goroutines, and the sharded retirement queues.
type Manager struct {
	global atomic.Uint64

	readers xsync.Map[int64, *atomic.Uint64]

	shards [shardCount]shard
}

type shard struct {
	mu      sync.Mutex
	retired map[uint64][]any
}

// NewManager constructs a Manager with the global epoch initialized to 1;
// epoch 0 is reserved to mean "no recorded epoch".
func NewManager() *Manager {
	m := &Manager{}
	m.global.Store(1)
	for i := range m.shards {
		m.shards[i].retired = make(map[uint64][]any)
	}
	return m
}

// Guard represents one goroutine's pin on the current epoch. Callers pin
// before operating on the tree and release the Guard with Unpin when done;
// the tree operations themselves never call Unpin.
type Guard struct {
	mgr   *Manager
	goid  int64
	epoch *atomic.Uint64
}

// Pin records the calling goroutine as active at the current global epoch
// and returns a Guard that must be released with Unpin once the caller is
// done touching the tree.
func (m *Manager) Pin() *Guard {
	goid := routine.Goid()

	epoch, _ := m.readers.LoadOrStore(goid, func() *atomic.Uint64 { return new(atomic.Uint64) })
	epoch.Store(m.global.Load())

	return &Guard{mgr: m, goid: goid, epoch: epoch}
}

// Unpin releases the guard, marking the goroutine as no longer observing
// any particular epoch.
func (g *Guard) Unpin() {
	if g == nil {
		return
	}
	g.epoch.Store(0)
}

// Epoch returns the epoch the guard pinned at.
func (g *Guard) Epoch() uint64 {
	if g == nil {
		return 0
	}
	return g.epoch.Load()
}

// Advance bumps the global epoch. Called by write operations after
// unlinking a node from the tree and before retiring it, so that the
// retirement is recorded against the epoch in which the unlink became
// visible.
func (m *Manager) Advance() uint64 {
	return m.global.Add(1)
}

// Retire queues obj to be dropped once no pinned goroutine could still be
// observing the epoch in which it was unlinked.
func (m *Manager) Retire(obj any) {
	if obj == nil {
		return
	}

	e := m.global.Load()
	s := m.shardFor(m.currentGoid())

	s.mu.Lock()
	s.retired[e] = append(s.retired[e], obj)
	s.mu.Unlock()
}

func (m *Manager) currentGoid() int64 { return routine.Goid() }

func (m *Manager) shardFor(goid int64) *shard {
	h := shardHasher.Hash(uint64(goid))
	return &m.shards[h%shardCount]
}

// TryReclaim drops every retired object whose epoch is strictly below the
// minimum epoch any currently pinned goroutine might observe. It is caller
// driven rather than backed by its own goroutine: tree write operations
// call it opportunistically after finishing their own work, exactly as the
// model this package is built from documents (nodes are actually freed by
// the Go garbage collector once the last reference here is dropped).
func (m *Manager) TryReclaim() (reclaimed int) {
	min := m.minActiveEpoch()

	for i := range m.shards {
		s := &m.shards[i]

		s.mu.Lock()
		for e, objs := range s.retired {
			if e < min {
				reclaimed += len(objs)
				delete(s.retired, e)
			}
		}
		s.mu.Unlock()
	}

	return reclaimed
}

func (m *Manager) minActiveEpoch() uint64 {
	min := m.global.Load()

	for _, e := range m.readers.All() {
		if v := e.Load(); v != 0 && v < min {
			min = v
		}
	}

	return min
}

// PendingCount reports how many retired objects are still waiting to be
// reclaimed. Used by tests to observe reclamation progress.
func (m *Manager) PendingCount() int {
	count := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for _, objs := range s.retired {
			count += len(objs)
		}
		s.mu.Unlock()
	}
	return count
}
