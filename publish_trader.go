package lob

import "sync"

// PublishTrader receives matched trades. Implementations are called outside
// the book lock and may block without stalling matching, but should still
// return promptly to keep publication ordered with subsequent calls.
type PublishTrader interface {
	PublishTrades(...*Trade)
}

// MemoryPublishTrader accumulates trades in memory. Intended for tests and
// demos.
type MemoryPublishTrader struct {
	mu     sync.RWMutex
	Trades []*Trade
}

func NewMemoryPublishTrader() *MemoryPublishTrader {
	return &MemoryPublishTrader{
		Trades: make([]*Trade, 0),
	}
}

func (m *MemoryPublishTrader) PublishTrades(trades ...*Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trades = append(m.Trades, trades...)
}

func (m *MemoryPublishTrader) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Trades)
}

func (m *MemoryPublishTrader) Get(index int) *Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Trades[index]
}

// DiscardPublishTrader drops every trade. It is the default sink.
type DiscardPublishTrader struct {
}

func NewDiscardPublishTrader() *DiscardPublishTrader {
	return &DiscardPublishTrader{}
}

func (p *DiscardPublishTrader) PublishTrades(trades ...*Trade) {

}
