package lob

import (
	"math"
	"sync"
)

// Best-of-book sentinels. A caller seeing NoBid or NoAsk is looking at an
// empty side, not a real price.
const (
	NoBid uint64 = 0
	NoAsk uint64 = math.MaxUint64
)

// orderRef locates a resting order: its arena slot plus the side and price
// of the level holding it. The position inside the level is recomputed on
// removal, since shift-removal invalidates stored positions.
type orderRef struct {
	handle Handle
	side   Side
	price  uint64
}

type bookConfig struct {
	maxPriceLevels    int
	maxOrdersPerLevel int
	pricing           TradePricing
	publishTrader     PublishTrader
}

// Option configures an OrderBook at construction time.
type Option func(*bookConfig)

// WithMaxPriceLevels caps the number of distinct price levels per side.
func WithMaxPriceLevels(n int) Option {
	return func(c *bookConfig) {
		if n > 0 {
			c.maxPriceLevels = n
		}
	}
}

// WithMaxOrdersPerLevel caps the number of resting orders at one price.
func WithMaxOrdersPerLevel(n int) Option {
	return func(c *bookConfig) {
		if n > 0 {
			c.maxOrdersPerLevel = n
		}
	}
}

// WithTradePricing selects the price recorded when two limit orders cross.
func WithTradePricing(p TradePricing) Option {
	return func(c *bookConfig) {
		c.pricing = p
	}
}

// WithPublishTrader sets the sink for matched trades.
func WithPublishTrader(pt PublishTrader) Option {
	return func(c *bookConfig) {
		if pt != nil {
			c.publishTrader = pt
		}
	}
}

// OrderBook is the book for one instrument. A single RWMutex covers both
// level sequences, the id index and the trade stats: add, cancel and match
// each touch all of them together, so finer locks would let the index and
// the levels disagree.
//
// Every public mutating method is a thin locking wrapper over an internal
// helper that assumes the lock is held. Internal code paths only ever call
// the internal helpers; calling a public sibling from inside would
// re-acquire the held lock and deadlock.
type OrderBook struct {
	mu     sync.RWMutex
	symbol string
	bids   *bookSide
	asks   *bookSide
	index  map[uint64]orderRef
	arena  *OrderArena

	lastTradePrice uint64
	lastTradeQty   uint32

	maxOrdersPerLevel int
	pricing           TradePricing
	publishTrader     PublishTrader
}

// NewOrderBook creates an empty book for symbol backed by the given arena.
func NewOrderBook(symbol string, arena *OrderArena, opts ...Option) *OrderBook {
	cfg := bookConfig{
		maxPriceLevels:    DefaultMaxPriceLevels,
		maxOrdersPerLevel: DefaultMaxOrdersPerLevel,
		pricing:           MidpointPrice,
		publishTrader:     NewDiscardPublishTrader(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &OrderBook{
		symbol:            symbol,
		bids:              newBidSide(cfg.maxPriceLevels),
		asks:              newAskSide(cfg.maxPriceLevels),
		index:             make(map[uint64]orderRef),
		arena:             arena,
		maxOrdersPerLevel: cfg.maxOrdersPerLevel,
		pricing:           cfg.pricing,
		publishTrader:     cfg.publishTrader,
	}
}

// AddOrder places a limit order. The order rests at its price level and,
// when it crosses the opposite best, matches immediately before the call
// returns. Rejections (duplicate id, full level, full side, exhausted
// arena) leave the book exactly as it was.
func (book *OrderBook) AddOrder(id, price uint64, quantity uint32, timestamp uint32, side Side) error {
	if quantity == 0 || price == 0 || (side != Buy && side != Sell) {
		OrdersRejected.WithLabelValues(rejectReason(ErrInvalidParam)).Inc()
		return ErrInvalidParam
	}

	book.mu.Lock()
	trades, err := book.addOrder(id, price, quantity, timestamp, side)
	book.mu.Unlock()

	if err != nil {
		OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		logger.Debug("order rejected", "symbol", book.symbol, "order_id", id, "reason", err.Error())
		return err
	}

	OrdersAccepted.Inc()
	book.publish(trades)
	return nil
}

// addOrder is the already-locked implementation of AddOrder.
func (book *OrderBook) addOrder(id, price uint64, quantity uint32, timestamp uint32, side Side) ([]*Trade, error) {
	if _, ok := book.index[id]; ok {
		return nil, ErrDuplicateOrderID
	}

	h, err := book.arena.Allocate(id, price, quantity, timestamp, side, book.symbol)
	if err != nil {
		return nil, err
	}

	s := book.sideLevels(side)
	lvl := s.level(price)
	created := false
	if lvl == nil {
		lvl = newPriceLevel(book.arena, price, book.maxOrdersPerLevel)
		if err := s.insertLevel(lvl); err != nil {
			book.arena.Deallocate(h)
			return nil, err
		}
		created = true
	}

	if err := lvl.Add(h); err != nil {
		if created {
			s.removeLevel(price)
		}
		book.arena.Deallocate(h)
		return nil, err
	}

	book.index[id] = orderRef{handle: h, side: side, price: price}

	// A marketable limit order executes now rather than resting crossed.
	if book.crossed() {
		return book.matchOrders(), nil
	}
	return nil, nil
}

// CancelOrder removes a resting order. Returns ErrOrderNotFound for an
// unknown id, with no state change.
func (book *OrderBook) CancelOrder(id uint64) error {
	book.mu.Lock()
	err := book.cancelOrder(id)
	book.mu.Unlock()

	if err != nil {
		return err
	}
	OrdersCancelled.Inc()
	return nil
}

// cancelOrder is the already-locked implementation of CancelOrder.
func (book *OrderBook) cancelOrder(id uint64) error {
	ref, ok := book.index[id]
	if !ok {
		return ErrOrderNotFound
	}
	return book.removeOrder(ref, id)
}

// removeOrder is the internal removal primitive shared by cancel, matching
// and market-order consumption. It assumes the book's exclusive lock is
// held: it must never be reached through a public wrapper re-entering the
// lock. The level is dropped when its last member leaves, keeping the
// no-empty-levels invariant.
func (book *OrderBook) removeOrder(ref orderRef, id uint64) error {
	s := book.sideLevels(ref.side)
	lvl := s.level(ref.price)
	if lvl == nil {
		return ErrOrderNotFound
	}
	if _, err := lvl.Remove(id); err != nil {
		return err
	}
	if lvl.Count() == 0 {
		s.removeLevel(ref.price)
	}
	book.arena.Deallocate(ref.handle)
	delete(book.index, id)
	return nil
}

// ProcessMarketOrder fills quantity against the best opposite-side levels,
// oldest order first within each level. A partial fill is a valid outcome:
// filled may be less than requested when liquidity runs out, and totalCost
// covers only the filled portion. An empty opposite side returns (0, 0).
func (book *OrderBook) ProcessMarketOrder(quantity uint32, side Side) (uint32, uint64) {
	if quantity == 0 || (side != Buy && side != Sell) {
		return 0, 0
	}

	book.mu.Lock()
	filled, totalCost, trades := book.marketOrder(quantity, side)
	book.mu.Unlock()

	if filled > 0 {
		VolumeFilled.Add(float64(filled))
	}
	book.publish(trades)
	return filled, totalCost
}

// marketOrder is the already-locked implementation of ProcessMarketOrder.
func (book *OrderBook) marketOrder(quantity uint32, side Side) (uint32, uint64, []*Trade) {
	target := book.asks
	if side == Sell {
		target = book.bids
	}

	var (
		filled    uint32
		totalCost uint64
		trades    []*Trade
	)
	remaining := quantity

	for remaining > 0 {
		lvl := target.best()
		if lvl == nil {
			break
		}

		for remaining > 0 {
			h, ok := lvl.Peek(0)
			if !ok {
				// Level drained; removeOrder already unlinked it.
				break
			}
			ord := book.arena.Get(h)

			match := min(remaining, ord.Quantity)
			filled += match
			totalCost += uint64(match) * lvl.Price()
			remaining -= match

			// Decrement the order and the level aggregate together, before
			// any removal: Remove subtracts whatever quantity the order
			// still carries, so a fully filled order must read zero by then.
			ord.Quantity -= match
			lvl.reduce(match)

			book.lastTradePrice = lvl.Price()
			book.lastTradeQty = match
			trades = append(trades, &Trade{
				Symbol:       book.symbol,
				Price:        lvl.Price(),
				Quantity:     match,
				MakerOrderID: ord.ID,
			})

			if ord.Quantity == 0 {
				_ = book.removeOrder(book.index[ord.ID], ord.ID)
			}
		}
	}

	return filled, totalCost, trades
}

// matchOrders runs the continuous price-time-priority match loop: while the
// book is crossed, the oldest bid and ask at the best levels trade the
// smaller of their quantities. Assumes the book's exclusive lock is held.
func (book *OrderBook) matchOrders() []*Trade {
	var trades []*Trade

	for {
		bestBid := book.bids.best()
		bestAsk := book.asks.best()
		if bestBid == nil || bestAsk == nil || bestBid.Price() < bestAsk.Price() {
			break
		}

		bh, ok := bestBid.Peek(0)
		if !ok {
			break
		}
		sh, ok := bestAsk.Peek(0)
		if !ok {
			break
		}

		buy := book.arena.Get(bh)
		sell := book.arena.Get(sh)

		match := min(buy.Quantity, sell.Quantity)
		price := book.tradePrice(buy, sell, bestBid.Price(), bestAsk.Price())

		// The later arrival took the earlier one's liquidity.
		taker, maker := buy, sell
		if sell.Timestamp > buy.Timestamp {
			taker, maker = sell, buy
		}

		// Decrement both orders and both level aggregates before any
		// removal, so Remove subtracts zero from a fully filled order's
		// level instead of its pre-match quantity.
		buy.Quantity -= match
		sell.Quantity -= match
		bestBid.reduce(match)
		bestAsk.reduce(match)
		book.lastTradePrice = price
		book.lastTradeQty = match
		trades = append(trades, &Trade{
			Symbol:       book.symbol,
			Price:        price,
			Quantity:     match,
			TakerOrderID: taker.ID,
			MakerOrderID: maker.ID,
		})

		// Capture ids before any slot is released.
		buyID, sellID := buy.ID, sell.ID
		if buy.Quantity == 0 {
			_ = book.removeOrder(book.index[buyID], buyID)
		}
		if sell.Quantity == 0 {
			_ = book.removeOrder(book.index[sellID], sellID)
		}
	}

	return trades
}

// tradePrice applies the configured pricing policy to a bid/ask cross.
func (book *OrderBook) tradePrice(buy, sell *Order, bidPrice, askPrice uint64) uint64 {
	switch book.pricing {
	case MakerPrice:
		if buy.Timestamp <= sell.Timestamp {
			return buy.Price
		}
		return sell.Price
	default:
		return (bidPrice + askPrice) / 2
	}
}

// crossed reports whether the best bid meets or exceeds the best ask.
func (book *OrderBook) crossed() bool {
	bestBid := book.bids.best()
	bestAsk := book.asks.best()
	return bestBid != nil && bestAsk != nil && bestBid.Price() >= bestAsk.Price()
}

func (book *OrderBook) sideLevels(side Side) *bookSide {
	if side == Buy {
		return book.bids
	}
	return book.asks
}

// publish hands matched trades to the sink after the book lock has been
// released, so a slow consumer can never stall the matching path.
func (book *OrderBook) publish(trades []*Trade) {
	if len(trades) == 0 {
		return
	}
	TradesMatched.Add(float64(len(trades)))
	book.publishTrader.PublishTrades(trades...)
}

// BestBid returns the highest bid price, or NoBid when the bid side is
// empty.
func (book *OrderBook) BestBid() uint64 {
	book.mu.RLock()
	defer book.mu.RUnlock()

	if lvl := book.bids.best(); lvl != nil {
		return lvl.Price()
	}
	return NoBid
}

// BestAsk returns the lowest ask price, or NoAsk when the ask side is
// empty.
func (book *OrderBook) BestAsk() uint64 {
	book.mu.RLock()
	defer book.mu.RUnlock()

	if lvl := book.asks.best(); lvl != nil {
		return lvl.Price()
	}
	return NoAsk
}

// Spread returns best ask minus best bid, or NoAsk when either side is
// empty.
func (book *OrderBook) Spread() uint64 {
	book.mu.RLock()
	defer book.mu.RUnlock()

	bestBid := book.bids.best()
	bestAsk := book.asks.best()
	if bestBid == nil || bestAsk == nil {
		return NoAsk
	}
	return bestAsk.Price() - bestBid.Price()
}

// MidPrice returns the average of both best prices, the present side's best
// when only one side has liquidity, and zero for an empty book.
func (book *OrderBook) MidPrice() uint64 {
	book.mu.RLock()
	defer book.mu.RUnlock()

	bestBid := book.bids.best()
	bestAsk := book.asks.best()
	switch {
	case bestBid != nil && bestAsk != nil:
		return (bestBid.Price() + bestAsk.Price()) / 2
	case bestBid != nil:
		return bestBid.Price()
	case bestAsk != nil:
		return bestAsk.Price()
	}
	return 0
}

// Depth returns the number of price levels on the bid and ask sides.
func (book *OrderBook) Depth() (int, int) {
	book.mu.RLock()
	defer book.mu.RUnlock()
	return book.bids.depthCount(), book.asks.depthCount()
}

// Symbol returns the instrument this book trades.
func (book *OrderBook) Symbol() string {
	return book.symbol
}

// LastTrade returns the price and quantity of the most recent match, zero
// values if the book has never traded.
func (book *OrderBook) LastTrade() (uint64, uint32) {
	book.mu.RLock()
	defer book.mu.RUnlock()
	return book.lastTradePrice, book.lastTradeQty
}
