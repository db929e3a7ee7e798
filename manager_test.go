package lob

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGet(t *testing.T) {
	t.Run("creates a book on first use", func(t *testing.T) {
		manager := NewManager()
		book := manager.Get("AAPL")
		require.NotNil(t, book)
		assert.Equal(t, "AAPL", book.Symbol())
	})

	t.Run("is idempotent", func(t *testing.T) {
		manager := NewManager()
		first := manager.Get("AAPL")
		second := manager.Get("AAPL")
		assert.Same(t, first, second)

		other := manager.Get("MSFT")
		assert.NotSame(t, first, other)
	})

	t.Run("books share the manager arena", func(t *testing.T) {
		manager := NewManager()
		aapl := manager.Get("AAPL")
		msft := manager.Get("MSFT")
		assert.Same(t, manager.Arena(), aapl.arena)
		assert.Same(t, manager.Arena(), msft.arena)
	})

	t.Run("concurrent lookups of one symbol converge", func(t *testing.T) {
		manager := NewManager()

		const workers = 16
		books := make([]*OrderBook, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				books[w] = manager.Get("AAPL")
			}(w)
		}
		wg.Wait()

		for w := 1; w < workers; w++ {
			assert.Same(t, books[0], books[w])
		}
	})
}

func TestManagerSubmit(t *testing.T) {
	t.Run("limit orders", func(t *testing.T) {
		manager := NewManager()
		assert.True(t, manager.Submit("AAPL", 1, 15000, 100, 1, Limit, Buy))
		assert.False(t, manager.Submit("AAPL", 1, 15000, 100, 2, Limit, Buy), "duplicate id")

		bidDepth, _ := manager.Get("AAPL").Depth()
		assert.Equal(t, 1, bidDepth)
	})

	t.Run("market orders succeed only when something filled", func(t *testing.T) {
		manager := NewManager()
		assert.False(t, manager.Submit("AAPL", 0, 0, 100, 1, Market, Buy), "no liquidity")

		require.True(t, manager.Submit("AAPL", 1, 15200, 200, 2, Limit, Sell))
		assert.True(t, manager.Submit("AAPL", 0, 0, 75, 3, Market, Buy))
	})

	t.Run("cancel", func(t *testing.T) {
		manager := NewManager()
		require.True(t, manager.Submit("AAPL", 1, 15000, 100, 1, Limit, Buy))
		assert.True(t, manager.Submit("AAPL", 1, 0, 0, 2, Cancel, Buy))
		assert.False(t, manager.Submit("AAPL", 1, 0, 0, 3, Cancel, Buy), "already gone")
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		manager := NewManager()
		assert.False(t, manager.Submit("AAPL", 1, 15000, 100, 1, OrderType("stop"), Buy))
	})

	t.Run("symbols are isolated", func(t *testing.T) {
		manager := NewManager()
		require.True(t, manager.Submit("AAPL", 1, 15000, 100, 1, Limit, Buy))
		require.True(t, manager.Submit("MSFT", 1, 30000, 100, 1, Limit, Buy))

		assert.Equal(t, uint64(15000), manager.Get("AAPL").BestBid())
		assert.Equal(t, uint64(30000), manager.Get("MSFT").BestBid())
	})
}

func TestManagerSubmitCancelOtherSymbol(t *testing.T) {
	manager := NewManager()
	require.True(t, manager.Submit("AAPL", 1, 15000, 100, 1, Limit, Buy))

	// The id exists in AAPL's book only.
	assert.False(t, manager.Submit("MSFT", 1, 0, 0, 2, Cancel, Buy))
	assert.True(t, manager.Submit("AAPL", 1, 0, 0, 3, Cancel, Buy))
}
