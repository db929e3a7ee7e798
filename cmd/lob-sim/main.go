package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"

	"github.com/tickworks/lob"
)

// lob-sim feeds seeded random order flow through a Manager and renders the
// resulting books, exercising the whole submit/match/cancel surface.

func newLogger(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	var l zerolog.Logger
	if cfg.Logging.Pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return l.Level(level)
}

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := newLogger(cfg)

	opts := []lob.Option{}
	if cfg.Book.MaxPriceLevels > 0 {
		opts = append(opts, lob.WithMaxPriceLevels(cfg.Book.MaxPriceLevels))
	}
	if cfg.Book.MaxOrdersPerLevel > 0 {
		opts = append(opts, lob.WithMaxOrdersPerLevel(cfg.Book.MaxOrdersPerLevel))
	}
	if cfg.Book.TradePricing == "maker" {
		opts = append(opts, lob.WithTradePricing(lob.MakerPrice))
	}

	arena := lob.NewOrderArenaWithCeiling(cfg.Arena.Capacity, cfg.Arena.Ceiling)
	manager := lob.NewManagerWithArena(arena, opts...)

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", lob.Handler())
		go func() {
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	var (
		t       tomb.Tomb
		nextID  atomic.Uint64
		nextSeq atomic.Uint32
	)
	for w := 0; w < cfg.Feed.Workers; w++ {
		seed := cfg.Feed.Seed + int64(w)
		t.Go(func() error {
			feed(&t, manager, cfg, seed, &nextID, &nextSeq)
			return nil
		})
	}
	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("feed failed")
		os.Exit(1)
	}

	for _, symbol := range cfg.Symbols {
		printBook(os.Stdout, manager.Get(symbol), cfg.Print.Levels)
	}
	log.Info().
		Int("live_orders", arena.Live()).
		Int("arena_capacity", arena.Capacity()).
		Msg("simulation finished")
}

// feed submits one worker's share of the random flow: mostly limit orders
// around the mid, a slice of market orders, and cancels of this worker's
// own recent orders.
func feed(t *tomb.Tomb, manager *lob.Manager, cfg Config, seed int64, nextID *atomic.Uint64, nextSeq *atomic.Uint32) {
	rng := rand.New(rand.NewSource(seed))
	recent := make([]uint64, 0, 128)

	for i := 0; i < cfg.Feed.OrdersPerWorker; i++ {
		select {
		case <-t.Dying():
			return
		default:
		}

		symbol := cfg.Symbols[rng.Intn(len(cfg.Symbols))]
		side := lob.Buy
		if rng.Intn(2) == 0 {
			side = lob.Sell
		}
		ts := nextSeq.Add(1)

		switch r := rng.Float64(); {
		case r < cfg.Feed.MarketRatio:
			manager.Submit(symbol, 0, 0, uint32(1+rng.Intn(100)), ts, lob.Market, side)
		case r < cfg.Feed.MarketRatio+cfg.Feed.CancelRatio && len(recent) > 0:
			idx := rng.Intn(len(recent))
			manager.Submit(symbol, recent[idx], 0, 0, ts, lob.Cancel, side)
			recent = append(recent[:idx], recent[idx+1:]...)
		default:
			id := nextID.Add(1)
			price := cfg.Feed.MidPrice - cfg.Feed.PriceBand + uint64(rng.Intn(int(2*cfg.Feed.PriceBand)))
			if manager.Submit(symbol, id, price, uint32(1+rng.Intn(100)), ts, lob.Limit, side) {
				if len(recent) == cap(recent) {
					recent = recent[1:]
				}
				recent = append(recent, id)
			}
		}
	}
}

// printBook renders the top of the book the way the reporting side expects
// it: asks highest-first above the spread line, bids below, prices in
// currency units.
func printBook(w *os.File, book *lob.OrderBook, depth int) {
	bids, asks := book.DepthSnapshot(depth)

	fmt.Fprintf(w, "\nOrder Book for %s\n", book.Symbol())
	fmt.Fprintln(w, "================================")
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "SELL %8s x %-8d (%d orders)\n",
			lob.PriceFromTicks(asks[i].Price), asks[i].Quantity, asks[i].Orders)
	}
	fmt.Fprintln(w, "--------------------------------")
	for _, b := range bids {
		fmt.Fprintf(w, "BUY  %8s x %-8d (%d orders)\n",
			lob.PriceFromTicks(b.Price), b.Quantity, b.Orders)
	}
	fmt.Fprintln(w, "================================")

	if spread := book.Spread(); spread == lob.NoAsk {
		fmt.Fprintf(w, "Spread: n/a | Mid Price: %s\n", lob.PriceFromTicks(book.MidPrice()))
	} else {
		fmt.Fprintf(w, "Spread: %s | Mid Price: %s\n",
			lob.PriceFromTicks(spread), lob.PriceFromTicks(book.MidPrice()))
	}
	lastPrice, lastQty := book.LastTrade()
	fmt.Fprintf(w, "Last Trade: %s x %d\n", lob.PriceFromTicks(lastPrice), lastQty)
}
