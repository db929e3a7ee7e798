package lob

import "github.com/huandu/skiplist"

// bookSide keeps one side's price levels sorted best-first: descending by
// price for bids, ascending for asks. The skiplist gives ordered traversal
// and O(log n) inserts; the price map gives O(1) level lookup on the add
// and cancel paths.
type bookSide struct {
	side      Side
	maxLevels int
	levels    *skiplist.SkipList
	byPrice   map[uint64]*skiplist.Element
	depths    int
}

// newBidSide creates the buy side, sorted by price in descending order
// (highest bid first).
func newBidSide(maxLevels int) *bookSide {
	return &bookSide{
		side:      Buy,
		maxLevels: maxLevels,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(uint64)
			p2, _ := rhs.(uint64)

			if p1 < p2 {
				return 1
			} else if p1 > p2 {
				return -1
			}

			return 0
		})),
		byPrice: make(map[uint64]*skiplist.Element),
	}
}

// newAskSide creates the sell side, sorted by price in ascending order
// (lowest ask first).
func newAskSide(maxLevels int) *bookSide {
	return &bookSide{
		side:      Sell,
		maxLevels: maxLevels,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(uint64)
			p2, _ := rhs.(uint64)

			if p1 > p2 {
				return 1
			} else if p1 < p2 {
				return -1
			}

			return 0
		})),
		byPrice: make(map[uint64]*skiplist.Element),
	}
}

// level returns the price level at the given price, or nil.
func (s *bookSide) level(price uint64) *PriceLevel {
	el, ok := s.byPrice[price]
	if !ok {
		return nil
	}
	lvl, _ := el.Value.(*PriceLevel)
	return lvl
}

// insertLevel adds a new level at its sorted position. Returns ErrBookFull
// without mutation when the side already holds maxLevels levels.
func (s *bookSide) insertLevel(lvl *PriceLevel) error {
	if s.depths >= s.maxLevels {
		return ErrBookFull
	}
	el := s.levels.Set(lvl.Price(), lvl)
	s.byPrice[lvl.Price()] = el
	s.depths++
	return nil
}

// removeLevel unlinks the level at price. The skiplist preserves the
// relative order of the surviving levels.
func (s *bookSide) removeLevel(price uint64) {
	el, ok := s.byPrice[price]
	if !ok {
		return
	}
	s.levels.RemoveElement(el)
	delete(s.byPrice, price)
	s.depths--
}

// best returns the level at the front of the side (highest bid or lowest
// ask), or nil when the side is empty.
func (s *bookSide) best() *PriceLevel {
	el := s.levels.Front()
	if el == nil {
		return nil
	}
	lvl, _ := el.Value.(*PriceLevel)
	return lvl
}

// depthCount returns the number of price levels on this side.
func (s *bookSide) depthCount() int {
	return s.depths
}

// walk visits levels best-first until fn returns false or the side is
// exhausted.
func (s *bookSide) walk(fn func(*PriceLevel) bool) {
	for el := s.levels.Front(); el != nil; el = el.Next() {
		lvl, _ := el.Value.(*PriceLevel)
		if !fn(lvl) {
			return
		}
	}
}
