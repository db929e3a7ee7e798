package lob

import (
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"
)

// TickScale is the number of decimal places one tick represents: prices are
// currency values scaled by 10^TickScale so the book only ever compares
// integers.
const TickScale = 2

// PriceFromTicks renders a tick price as a decimal currency amount.
func PriceFromTicks(ticks uint64) decimal.Decimal {
	return decimal.New(int64(ticks), -TickScale)
}

// TicksFromPrice converts a decimal currency amount to ticks, truncating
// sub-tick precision.
func TicksFromPrice(price decimal.Decimal) uint64 {
	return uint64(price.Shift(TickScale).IntPart())
}

// DepthItem is one price level in a book snapshot: enough for a reporting
// collaborator to render the level without touching the book again.
type DepthItem struct {
	Price    uint64
	Quantity uint64
	Orders   int
}

// DepthSnapshot returns up to limit levels per side, best price first, as a
// consistent read-locked view. A limit of 0 or less returns all levels.
func (book *OrderBook) DepthSnapshot(limit int) (bids, asks []DepthItem) {
	book.mu.RLock()
	defer book.mu.RUnlock()

	bids = collectDepth(book.bids, limit)
	asks = collectDepth(book.asks, limit)
	return bids, asks
}

func collectDepth(s *bookSide, limit int) []DepthItem {
	if limit <= 0 || limit > s.depthCount() {
		limit = s.depthCount()
	}
	items := make([]DepthItem, 0, limit)
	s.walk(func(lvl *PriceLevel) bool {
		items = append(items, DepthItem{
			Price:    lvl.Price(),
			Quantity: lvl.TotalQuantity(),
			Orders:   lvl.Count(),
		})
		return len(items) < limit
	})
	return items
}

// AggregatedBook maintains a simplified price -> depth view rebuilt from
// snapshots. It is designed for reporting and telemetry consumers that
// need ordered depth without holding a book handle.
type AggregatedBook struct {
	bid *treemap.TreeMap[uint64, DepthItem]
	ask *treemap.TreeMap[uint64, DepthItem]
}

// NewAggregatedBook creates an AggregatedBook with empty bid and ask sides.
func NewAggregatedBook() *AggregatedBook {
	return &AggregatedBook{
		bid: treemap.New[uint64, DepthItem](),
		ask: treemap.New[uint64, DepthItem](),
	}
}

// Apply replaces the view with the levels of a fresh snapshot.
func (ab *AggregatedBook) Apply(bids, asks []DepthItem) {
	ab.bid.Clear()
	for _, item := range bids {
		ab.bid.Set(item.Price, item)
	}
	ab.ask.Clear()
	for _, item := range asks {
		ab.ask.Set(item.Price, item)
	}
}

// Bids returns up to limit bid levels, highest price first. A limit of 0 or
// less returns all levels.
func (ab *AggregatedBook) Bids(limit int) []DepthItem {
	if limit <= 0 {
		limit = ab.bid.Len()
	}
	items := make([]DepthItem, 0, limit)
	for it := ab.bid.Reverse(); it.Valid() && len(items) < limit; it.Next() {
		items = append(items, it.Value())
	}
	return items
}

// Asks returns up to limit ask levels, lowest price first. A limit of 0 or
// less returns all levels.
func (ab *AggregatedBook) Asks(limit int) []DepthItem {
	if limit <= 0 {
		limit = ab.ask.Len()
	}
	items := make([]DepthItem, 0, limit)
	for it := ab.ask.Iterator(); it.Valid() && len(items) < limit; it.Next() {
		items = append(items, it.Value())
	}
	return items
}

// DepthAt returns the aggregated quantity resting at a price, zero when the
// level does not exist in the view.
func (ab *AggregatedBook) DepthAt(side Side, price uint64) uint64 {
	m := ab.ask
	if side == Buy {
		m = ab.bid
	}
	if item, ok := m.Get(price); ok {
		return item.Quantity
	}
	return 0
}
