package lob

import "sync"

// PriceLevel holds every resting order at one price, oldest arrival first.
// That ordering is the "time" half of price-time priority and must survive
// any interleaving of insertions and removals.
//
// The owning book's exclusive lock is the primary guard for all mutation;
// the level's own lock only keeps standalone use safe. It is never held
// across a call back into the book.
type PriceLevel struct {
	mu       sync.RWMutex
	price    uint64
	orders   []Handle
	totalQty uint64
	capacity int
	arena    *OrderArena
}

func newPriceLevel(arena *OrderArena, price uint64, capacity int) *PriceLevel {
	return &PriceLevel{
		price:    price,
		orders:   make([]Handle, 0, capacity),
		capacity: capacity,
		arena:    arena,
	}
}

// Add appends an order at the tail, preserving arrival order. Returns
// ErrLevelFull without mutation once the level holds capacity orders.
func (l *PriceLevel) Add(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.orders) >= l.capacity {
		return ErrLevelFull
	}
	l.orders = append(l.orders, h)
	l.totalQty += uint64(l.arena.Get(h).Quantity)
	return nil
}

// Remove takes the order with the given id out of the level and returns its
// remaining quantity. Later arrivals shift left one position; swapping with
// the tail would silently reorder the time-priority queue.
func (l *PriceLevel) Remove(id uint64) (uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, h := range l.orders {
		ord := l.arena.Get(h)
		if ord.ID != id {
			continue
		}
		qty := ord.Quantity
		copy(l.orders[i:], l.orders[i+1:])
		l.orders = l.orders[:len(l.orders)-1]
		l.totalQty -= uint64(qty)
		return qty, nil
	}
	return 0, ErrOrderNotFound
}

// Peek returns the handle at position i, oldest first.
func (l *PriceLevel) Peek(i int) (Handle, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.orders) {
		return nullHandle, false
	}
	return l.orders[i], true
}

// Count returns the number of resting orders at this price.
func (l *PriceLevel) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// TotalQuantity returns the aggregate remaining quantity at this price.
// It is maintained incrementally and always equals the sum over members.
func (l *PriceLevel) TotalQuantity() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalQty
}

// Price returns the level's price, immutable for its lifetime.
func (l *PriceLevel) Price() uint64 {
	return l.price
}

// reduce subtracts a partially matched quantity from the aggregate. The
// member's own Quantity is decremented by the caller, which holds the
// owning book's exclusive lock.
func (l *PriceLevel) reduce(qty uint32) {
	l.mu.Lock()
	l.totalQty -= uint64(qty)
	l.mu.Unlock()
}
