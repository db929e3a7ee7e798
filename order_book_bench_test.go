package lob

import (
	"math/rand"
	"testing"
)

// Benchmarks use a fixed seed for repeatability. Prices are spread over a
// band around a mid so both sides grow without crossing unless the case
// wants crossing.

func BenchmarkAddOrder(b *testing.B) {
	book := NewOrderBook("BENCH", NewOrderArena(DefaultManagerArenaCapacity))
	rng := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := Buy
		price := uint64(9000 + rng.Intn(500))
		if i%2 == 0 {
			side = Sell
			price = uint64(10500 + rng.Intn(500))
		}
		_ = book.AddOrder(uint64(i+1), price, uint32(1+rng.Intn(100)), uint32(i+1), side)
	}
}

func BenchmarkAddCancel(b *testing.B) {
	book := NewOrderBook("BENCH", NewOrderArena(DefaultArenaCapacity))
	rng := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := uint64(i + 1)
		price := uint64(9000 + rng.Intn(1000))
		_ = book.AddOrder(id, price, 10, uint32(i+1), Buy)
		_ = book.CancelOrder(id)
	}
}

func BenchmarkProcessMarketOrder(b *testing.B) {
	book := NewOrderBook("BENCH", NewOrderArena(DefaultManagerArenaCapacity))
	rng := rand.New(rand.NewSource(42))

	ts := uint32(1)
	refill := func(n int) {
		for i := 0; i < n; i++ {
			_ = book.AddOrder(uint64(ts), uint64(10000+rng.Intn(200)), 50, ts, Sell)
			ts++
		}
	}
	refill(10_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		filled, _ := book.ProcessMarketOrder(25, Buy)
		if filled == 0 {
			b.StopTimer()
			refill(10_000)
			b.StartTimer()
		}
	}
}

func BenchmarkMatchCrossing(b *testing.B) {
	book := NewOrderBook("BENCH", NewOrderArena(DefaultManagerArenaCapacity))

	ts := uint32(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Each pair rests a sell and lifts it with a crossing buy.
		_ = book.AddOrder(uint64(ts), 10000, 10, ts, Sell)
		ts++
		_ = book.AddOrder(uint64(ts), 10000, 10, ts, Buy)
		ts++
	}
}
