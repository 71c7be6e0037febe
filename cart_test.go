package cart_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flier/cart"
	"github.com/flier/cart/internal/node"
)

func TestInsertGetRemoveRoundTrip(t *testing.T) {
	tr := cart.New[cart.Uint64Key]()
	g := tr.Pin()
	defer g.Unpin()

	old, hadOld, err := tr.Insert(cart.Uint64Key(42), 100, g)
	require.NoError(t, err)
	assert.False(t, hadOld)
	assert.Zero(t, old)

	payload, found := tr.Get(cart.Uint64Key(42), g)
	require.True(t, found)
	assert.Equal(t, uint64(100), payload)

	payload, found = tr.Remove(cart.Uint64Key(42), g)
	require.True(t, found)
	assert.Equal(t, uint64(100), payload)

	_, found = tr.Get(cart.Uint64Key(42), g)
	assert.False(t, found)
}

func TestInsertReplacesExistingPayload(t *testing.T) {
	tr := cart.New[cart.Uint64Key]()
	g := tr.Pin()
	defer g.Unpin()

	_, _, err := tr.Insert(cart.Uint64Key(1), 10, g)
	require.NoError(t, err)

	old, hadOld, err := tr.Insert(cart.Uint64Key(1), 20, g)
	require.NoError(t, err)
	assert.True(t, hadOld)
	assert.Equal(t, uint64(10), old)

	payload, found := tr.Get(cart.Uint64Key(1), g)
	require.True(t, found)
	assert.Equal(t, uint64(20), payload)
}

func TestInsertRejectsPayloadWithReservedHighBit(t *testing.T) {
	tr := cart.New[cart.Uint64Key]()
	g := tr.Pin()
	defer g.Unpin()

	_, _, err := tr.Insert(cart.Uint64Key(1), node.MaxPayload+1, g)
	assert.ErrorIs(t, err, cart.ErrPayloadOverflow)

	_, found := tr.Get(cart.Uint64Key(1), g)
	assert.False(t, found)
}

func TestBytesKeyRoundTrip(t *testing.T) {
	tr := cart.New[cart.BytesKey]()
	g := tr.Pin()
	defer g.Unpin()

	_, _, err := tr.Insert(cart.BytesKey("hello"), 1, g)
	require.NoError(t, err)
	_, _, err = tr.Insert(cart.BytesKey("help"), 2, g)
	require.NoError(t, err)

	payload, found := tr.Get(cart.BytesKey("hello"), g)
	require.True(t, found)
	assert.Equal(t, uint64(1), payload)

	payload, found = tr.Get(cart.BytesKey("help"), g)
	require.True(t, found)
	assert.Equal(t, uint64(2), payload)

	_, found = tr.Get(cart.BytesKey("nope"), g)
	assert.False(t, found)
}

func TestRangeOverBytesKeys(t *testing.T) {
	tr := cart.New[cart.BytesKey]()
	g := tr.Pin()
	defer g.Unpin()

	for i, k := range []string{"banana", "apple", "cherry"} {
		_, _, err := tr.Insert(cart.BytesKey(k), uint64(i), g)
		require.NoError(t, err)
	}

	var got []uint64
	// BytesKey encodings order by length first, so the upper bound must be
	// longer than every stored key.
	tr.Range(cart.BytesKey(""), cart.BytesKey("zzzzzzzz"), g, func(_ []byte, payload uint64) bool {
		got = append(got, payload)
		return true
	})

	// apple=1, banana=0, cherry=2, in encoded key order (length, then bytes).
	assert.Equal(t, []uint64{1, 0, 2}, got)
}

func TestKeyFromBuildsEveryBuiltinKeyType(t *testing.T) {
	assert.Equal(t, cart.Uint8Key(7), cart.KeyFrom[cart.Uint8Key](7))
	assert.Equal(t, cart.Uint16Key(7), cart.KeyFrom[cart.Uint16Key](7))
	assert.Equal(t, cart.Uint32Key(7), cart.KeyFrom[cart.Uint32Key](7))
	assert.Equal(t, cart.Uint64Key(7), cart.KeyFrom[cart.Uint64Key](7))
	assert.Equal(t, cart.BytesKey{0, 0, 0, 0, 0, 0, 0, 7}, cart.KeyFrom[cart.BytesKey](7))
}

func TestConcurrentInsertGetRemoveThroughPublicAPI(t *testing.T) {
	tr := cart.New[cart.BytesKey]()

	const goroutines = 8
	const perGoroutine = 300

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(gi int) {
			defer wg.Done()
			g := tr.Pin()
			defer g.Unpin()

			for i := 0; i < perGoroutine; i++ {
				k := cart.BytesKey(fmt.Sprintf("g%03d-k%05d", gi, i))
				_, _, err := tr.Insert(k, uint64(gi*perGoroutine+i), g)
				assert.NoError(t, err)
			}
		}(gi)
	}
	wg.Wait()

	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(gi int) {
			defer wg.Done()
			g := tr.Pin()
			defer g.Unpin()

			for i := 0; i < perGoroutine; i++ {
				k := cart.BytesKey(fmt.Sprintf("g%03d-k%05d", gi, i))
				payload, found := tr.Get(k, g)
				assert.True(t, found, string(k))
				assert.Equal(t, uint64(gi*perGoroutine+i), payload, string(k))
			}
		}(gi)
	}
	wg.Wait()

	wg.Add(goroutines)
	for gi := 0; gi < goroutines; gi++ {
		go func(gi int) {
			defer wg.Done()
			g := tr.Pin()
			defer g.Unpin()

			for i := 0; i < perGoroutine; i++ {
				k := cart.BytesKey(fmt.Sprintf("g%03d-k%05d", gi, i))
				_, found := tr.Remove(k, g)
				assert.True(t, found, string(k))
			}
		}(gi)
	}
	wg.Wait()

	g := tr.Pin()
	defer g.Unpin()

	var remaining int
	// Stored keys are 11 bytes long; a 12-byte upper bound covers them all.
	tr.Range(cart.BytesKey(""), cart.BytesKey("\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff"), g, func([]byte, uint64) bool {
		remaining++
		return true
	})
	assert.Zero(t, remaining)
}
