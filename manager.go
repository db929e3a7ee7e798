package lob

import "sync"

// Manager is the symbol directory: it creates books lazily and routes typed
// order requests to them. Every book it creates shares the manager's arena.
//
// The directory is a sync.Map, so a lookup never overlaps a book's lock;
// directory access always completes before any per-book work begins.
type Manager struct {
	books sync.Map // symbol -> *OrderBook
	arena *OrderArena
	opts  []Option
}

// NewManager creates a manager with its own arena sized for many books.
// The options are applied to every book the manager creates.
func NewManager(opts ...Option) *Manager {
	return NewManagerWithArena(NewOrderArena(DefaultManagerArenaCapacity), opts...)
}

// NewManagerWithArena creates a manager whose books share the given arena.
func NewManagerWithArena(arena *OrderArena, opts ...Option) *Manager {
	return &Manager{
		arena: arena,
		opts:  opts,
	}
}

// Get returns the book for symbol, creating it on first use. Creation is
// idempotent: concurrent callers for the same symbol all receive the same
// book.
func (m *Manager) Get(symbol string) *OrderBook {
	if v, ok := m.books.Load(symbol); ok {
		return v.(*OrderBook)
	}
	book := NewOrderBook(symbol, m.arena, m.opts...)
	v, _ := m.books.LoadOrStore(symbol, book)
	return v.(*OrderBook)
}

// Submit resolves the book for symbol and dispatches one typed request.
// Limit orders report success when accepted, market orders when any
// quantity filled, cancels when the order existed. Unknown types are
// rejected.
func (m *Manager) Submit(symbol string, id, price uint64, quantity uint32, timestamp uint32, typ OrderType, side Side) bool {
	book := m.Get(symbol)

	switch typ {
	case Limit:
		return book.AddOrder(id, price, quantity, timestamp, side) == nil
	case Market:
		filled, _ := book.ProcessMarketOrder(quantity, side)
		return filled > 0
	case Cancel:
		return book.CancelOrder(id) == nil
	default:
		logger.Warn("unknown order type", "symbol", symbol, "type", string(typ))
		return false
	}
}

// Arena returns the arena shared by this manager's books.
func (m *Manager) Arena() *OrderArena {
	return m.arena
}
