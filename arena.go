package lob

import "sync"

// maxArenaChunks bounds the chunk directory. With 1024-slot chunks this is
// an absolute ceiling of ~4.2M live orders per arena.
const maxArenaChunks = 4096

// OrderArena owns the storage for every Order it hands out. Callers address
// slots by Handle; a *Order obtained from Get stays valid until the slot is
// deallocated because growth appends whole chunks and never moves a live
// slot. The chunk directory is a fixed array, so Get needs no lock: a chunk
// is published under the arena mutex before any handle into it exists.
//
// The arena's mutex is independent of any book lock, so one arena can back
// many books without the books serializing on each other beyond the brief
// allocate/reclaim section.
type OrderArena struct {
	mu       sync.Mutex
	chunks   [maxArenaChunks][]Order
	nchunks  int
	freeHead Handle
	live     int
	capacity int
	ceiling  int // 0 means unlimited (up to the chunk directory bound)
}

// NewOrderArena creates an arena with room for capacity orders before the
// first growth and no capacity ceiling. Capacity is rounded up to a whole
// number of chunks.
func NewOrderArena(capacity int) *OrderArena {
	return NewOrderArenaWithCeiling(capacity, 0)
}

// NewOrderArenaWithCeiling creates an arena that refuses to grow past
// ceiling slots. A ceiling of 0 means unlimited.
func NewOrderArenaWithCeiling(capacity, ceiling int) *OrderArena {
	if capacity < arenaChunkSize {
		capacity = arenaChunkSize
	}
	// Full chunks keep the handle -> (chunk, offset) mapping trivial.
	capacity = (capacity + arenaChunkSize - 1) / arenaChunkSize * arenaChunkSize
	if ceiling > 0 && ceiling < capacity {
		ceiling = capacity
	}

	a := &OrderArena{
		freeHead: nullHandle,
		ceiling:  ceiling,
	}
	for a.capacity < capacity {
		a.appendChunk(arenaChunkSize)
	}
	return a
}

// appendChunk adds size fresh slots and threads them onto the free list.
// Caller holds a.mu (or is the constructor).
func (a *OrderArena) appendChunk(size int) {
	base := Handle(a.capacity)
	chunk := make([]Order, size)
	for i := range chunk {
		if i == size-1 {
			chunk[i].nextFree = a.freeHead
		} else {
			chunk[i].nextFree = base + Handle(i) + 1
		}
	}
	a.chunks[a.nchunks] = chunk
	a.nchunks++
	a.freeHead = base
	a.capacity += size
}

// grow adds one more chunk, shrunk to fit under the ceiling if one is set.
func (a *OrderArena) grow() error {
	if a.nchunks == maxArenaChunks {
		return ErrArenaExhausted
	}
	size := arenaChunkSize
	if a.ceiling > 0 {
		remaining := a.ceiling - a.capacity
		if remaining <= 0 {
			return ErrArenaExhausted
		}
		if remaining < size {
			size = remaining
		}
	}
	oldCap := a.capacity
	a.appendChunk(size)
	logger.Info("order arena grew", "old_capacity", oldCap, "new_capacity", a.capacity)
	return nil
}

// Allocate takes a free slot (growing if none is left), populates it and
// returns its handle. Returns ErrArenaExhausted once the ceiling is hit.
func (a *OrderArena) Allocate(id, price uint64, quantity uint32, timestamp uint32, side Side, symbol string) (Handle, error) {
	a.mu.Lock()
	if a.freeHead == nullHandle {
		if err := a.grow(); err != nil {
			a.mu.Unlock()
			return nullHandle, err
		}
	}
	h := a.freeHead
	slot := a.at(h)
	a.freeHead = slot.nextFree
	a.live++
	*slot = Order{
		ID:        id,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
		Side:      side,
		Symbol:    symbol,
		nextFree:  nullHandle,
	}
	a.mu.Unlock()

	ArenaLiveOrders.Inc()
	return h, nil
}

// Deallocate returns a slot to the free list. The slot's contents are
// logically dead from this point; only the free-list link may be touched.
func (a *OrderArena) Deallocate(h Handle) {
	a.mu.Lock()
	slot := a.at(h)
	slot.nextFree = a.freeHead
	a.freeHead = h
	a.live--
	a.mu.Unlock()

	ArenaLiveOrders.Dec()
}

// Get returns the order stored in slot h. The pointer is stable for the
// order's lifetime; callers must not hold it past Deallocate.
func (a *OrderArena) Get(h Handle) *Order {
	return a.at(h)
}

func (a *OrderArena) at(h Handle) *Order {
	return &a.chunks[int(h)/arenaChunkSize][int(h)%arenaChunkSize]
}

// Live returns the number of slots currently handed out.
func (a *OrderArena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Capacity returns the current slot count, including free slots.
func (a *OrderArena) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capacity
}
