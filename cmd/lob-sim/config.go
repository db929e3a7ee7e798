package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbols []string `yaml:"symbols"`
	Book    struct {
		MaxPriceLevels    int    `yaml:"max_price_levels"`
		MaxOrdersPerLevel int    `yaml:"max_orders_per_level"`
		TradePricing      string `yaml:"trade_pricing"` // midpoint or maker
	} `yaml:"book"`
	Arena struct {
		Capacity int `yaml:"capacity"`
		Ceiling  int `yaml:"ceiling"`
	} `yaml:"arena"`
	Feed struct {
		Seed            int64   `yaml:"seed"`
		Workers         int     `yaml:"workers"`
		OrdersPerWorker int     `yaml:"orders_per_worker"`
		MidPrice        uint64  `yaml:"mid_price"`
		PriceBand       uint64  `yaml:"price_band"`
		MarketRatio     float64 `yaml:"market_ratio"`
		CancelRatio     float64 `yaml:"cancel_ratio"`
	} `yaml:"feed"`
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the endpoint
	} `yaml:"metrics"`
	Print struct {
		Levels int `yaml:"levels"`
	} `yaml:"print"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Symbols = []string{"AAPL", "MSFT"}
	cfg.Arena.Capacity = 100_000
	cfg.Book.TradePricing = "midpoint"
	cfg.Feed.Seed = 42
	cfg.Feed.Workers = 4
	cfg.Feed.OrdersPerWorker = 25_000
	cfg.Feed.MidPrice = 15_000
	cfg.Feed.PriceBand = 500
	cfg.Feed.MarketRatio = 0.1
	cfg.Feed.CancelRatio = 0.2
	cfg.Logging.Level = "info"
	cfg.Print.Levels = 5
	return cfg
}

// Load reads path when it exists and overlays it on the defaults. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if len(cfg.Symbols) == 0 {
		return cfg, fmt.Errorf("symbols must not be empty")
	}
	if cfg.Feed.Workers <= 0 {
		return cfg, fmt.Errorf("feed.workers must be positive")
	}
	if cfg.Feed.PriceBand == 0 || cfg.Feed.MidPrice <= cfg.Feed.PriceBand {
		return cfg, fmt.Errorf("feed.price_band must be positive and below feed.mid_price")
	}
	switch cfg.Book.TradePricing {
	case "midpoint", "maker":
	default:
		return cfg, fmt.Errorf("book.trade_pricing must be midpoint or maker, got %q", cfg.Book.TradePricing)
	}
	return cfg, nil
}
