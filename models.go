package lob

// Side identifies which half of the book an order belongs to.
type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType is the closed set of request kinds the Manager dispatches on.
type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
	Cancel OrderType = "cancel"
)

// Handle is a stable index into an OrderArena slot. Price levels and the
// id index hold handles rather than pointers, so arena growth can never
// leave them dangling.
type Handle int32

const nullHandle Handle = -1

// Order is a single resting order: immutable identity (ID, Side, Symbol)
// plus the remaining quantity, which only matching may decrease.
//
// Price is in integer ticks (fractional currency scaled to an integer) so
// level ordering is exact integer comparison. Timestamp is an arrival
// sequence number used only for intra-level tie-breaking.
type Order struct {
	ID        uint64
	Price     uint64
	Quantity  uint32
	Timestamp uint32
	Side      Side
	Symbol    string

	// Free-list link while the slot is dead. Never valid on a live order.
	nextFree Handle
}

// Trade is one match between a taker and a maker order.
// TakerOrderID is zero for market orders, which carry no id.
type Trade struct {
	Symbol       string
	Price        uint64
	Quantity     uint32
	TakerOrderID uint64
	MakerOrderID uint64
}

// TradePricing selects the price recorded when two limit orders cross.
type TradePricing int8

const (
	// MidpointPrice records the midpoint of the crossing bid and ask prices.
	MidpointPrice TradePricing = iota

	// MakerPrice records the resting order's price, the convention most
	// production matching engines use.
	MakerPrice
)
