package lob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLevelOrder(t *testing.T, arena *OrderArena, lvl *PriceLevel, id uint64, qty uint32, ts uint32) Handle {
	t.Helper()
	h, err := arena.Allocate(id, lvl.Price(), qty, ts, Sell, "AAPL")
	require.NoError(t, err)
	require.NoError(t, lvl.Add(h))
	return h
}

func levelIDs(t *testing.T, arena *OrderArena, lvl *PriceLevel) []uint64 {
	t.Helper()
	ids := make([]uint64, 0, lvl.Count())
	for i := 0; ; i++ {
		h, ok := lvl.Peek(i)
		if !ok {
			break
		}
		ids = append(ids, arena.Get(h).ID)
	}
	return ids
}

func TestPriceLevelArrivalOrder(t *testing.T) {
	arena := NewOrderArena(DefaultArenaCapacity)
	lvl := newPriceLevel(arena, 15000, DefaultMaxOrdersPerLevel)

	addLevelOrder(t, arena, lvl, 1, 100, 1)
	addLevelOrder(t, arena, lvl, 2, 50, 2)
	addLevelOrder(t, arena, lvl, 3, 25, 3)

	assert.Equal(t, []uint64{1, 2, 3}, levelIDs(t, arena, lvl))
	assert.Equal(t, 3, lvl.Count())
	assert.Equal(t, uint64(175), lvl.TotalQuantity())
	assert.Equal(t, uint64(15000), lvl.Price())
}

func TestPriceLevelRemovePreservesOrder(t *testing.T) {
	arena := NewOrderArena(DefaultArenaCapacity)
	lvl := newPriceLevel(arena, 15000, DefaultMaxOrdersPerLevel)

	for i := uint64(1); i <= 5; i++ {
		addLevelOrder(t, arena, lvl, i, 10, uint32(i))
	}

	qty, err := lvl.Remove(3)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), qty)

	// Survivors keep their relative order; time priority depends on it.
	assert.Equal(t, []uint64{1, 2, 4, 5}, levelIDs(t, arena, lvl))
	assert.Equal(t, uint64(40), lvl.TotalQuantity())
}

func TestPriceLevelRemoveUnknown(t *testing.T) {
	arena := NewOrderArena(DefaultArenaCapacity)
	lvl := newPriceLevel(arena, 15000, DefaultMaxOrdersPerLevel)
	addLevelOrder(t, arena, lvl, 1, 100, 1)

	_, err := lvl.Remove(99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 1, lvl.Count())
	assert.Equal(t, uint64(100), lvl.TotalQuantity())
}

func TestPriceLevelCapacity(t *testing.T) {
	arena := NewOrderArena(DefaultArenaCapacity)
	lvl := newPriceLevel(arena, 15000, 2)

	addLevelOrder(t, arena, lvl, 1, 10, 1)
	addLevelOrder(t, arena, lvl, 2, 10, 2)

	h, err := arena.Allocate(3, 15000, 10, 3, Sell, "AAPL")
	require.NoError(t, err)
	assert.ErrorIs(t, lvl.Add(h), ErrLevelFull)

	assert.Equal(t, 2, lvl.Count())
	assert.Equal(t, uint64(20), lvl.TotalQuantity())
	assert.Equal(t, []uint64{1, 2}, levelIDs(t, arena, lvl))
}

func TestPriceLevelReduce(t *testing.T) {
	arena := NewOrderArena(DefaultArenaCapacity)
	lvl := newPriceLevel(arena, 15000, DefaultMaxOrdersPerLevel)
	h := addLevelOrder(t, arena, lvl, 1, 100, 1)

	arena.Get(h).Quantity -= 30
	lvl.reduce(30)

	assert.Equal(t, uint64(70), lvl.TotalQuantity())
	assert.Equal(t, 1, lvl.Count())
}
