package epoch_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flier/cart/epoch"
)

func TestPinRecordsCurrentEpoch(t *testing.T) {
	mgr := epoch.NewManager()

	g := mgr.Pin()
	defer g.Unpin()

	assert.Equal(t, uint64(1), g.Epoch())

	mgr.Advance()

	g2 := mgr.Pin()
	defer g2.Unpin()
	assert.Equal(t, uint64(2), g2.Epoch())
}

func TestUnpinClearsEpoch(t *testing.T) {
	mgr := epoch.NewManager()

	g := mgr.Pin()
	require.NotZero(t, g.Epoch())

	g.Unpin()
	assert.Zero(t, g.Epoch())
}

func TestRetireIsReclaimedOnceTheEpochMovesPastIt(t *testing.T) {
	mgr := epoch.NewManager()

	mgr.Retire("obsolete node")
	assert.Equal(t, 1, mgr.PendingCount())

	// No reader is pinned, but the retirement is only safe to drop once the
	// global epoch has moved strictly past the epoch it was retired at.
	mgr.Advance()

	reclaimed := mgr.TryReclaim()
	assert.Equal(t, 1, reclaimed)
	assert.Zero(t, mgr.PendingCount())
}

func TestRetireIsHeldBackByAnOlderPin(t *testing.T) {
	mgr := epoch.NewManager()

	reader := mgr.Pin()
	defer reader.Unpin()

	mgr.Advance()
	mgr.Retire("obsolete node")
	mgr.Advance()

	// reader is still pinned at epoch 1, which precedes the retirement.
	reclaimed := mgr.TryReclaim()
	assert.Zero(t, reclaimed)
	assert.Equal(t, 1, mgr.PendingCount())

	reader.Unpin()

	reclaimed = mgr.TryReclaim()
	assert.Equal(t, 1, reclaimed)
}

func TestConcurrentPinAndRetire(t *testing.T) {
	mgr := epoch.NewManager()

	const goroutines = 16
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				g := mgr.Pin()
				mgr.Advance()
				mgr.Retire(j)
				g.Unpin()
				mgr.TryReclaim()
			}
		}()
	}

	wg.Wait()

	// Every reader has unpinned by now; one more Advance guarantees the
	// global epoch has moved strictly past the last retirement so it is
	// reclaimable too.
	mgr.Advance()
	mgr.TryReclaim()
	assert.Zero(t, mgr.PendingCount())
}
