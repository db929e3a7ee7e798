package lob

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersAccepted  = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_orders_accepted_total", Help: "Limit orders accepted into a book"})
	OrdersRejected  = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lob_orders_rejected_total", Help: "Orders rejected, by reason"}, []string{"reason"})
	OrdersCancelled = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_orders_cancelled_total", Help: "Resting orders cancelled"})
	TradesMatched   = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_trades_matched_total", Help: "Trades produced by matching"})
	VolumeFilled    = prometheus.NewCounter(prometheus.CounterOpts{Name: "lob_volume_filled_total", Help: "Quantity filled by market orders"})
	ArenaLiveOrders = prometheus.NewGauge(prometheus.GaugeOpts{Name: "lob_arena_live_orders", Help: "Order slots currently handed out across all arenas"})
)

func init() {
	prometheus.MustRegister(
		OrdersAccepted,
		OrdersRejected,
		OrdersCancelled,
		TradesMatched,
		VolumeFilled,
		ArenaLiveOrders,
	)
}

// Handler exposes the collectors for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// rejectReason maps a rejection error to its metric label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateOrderID):
		return "duplicate_id"
	case errors.Is(err, ErrLevelFull):
		return "level_full"
	case errors.Is(err, ErrBookFull):
		return "book_full"
	case errors.Is(err, ErrArenaExhausted):
		return "arena_exhausted"
	case errors.Is(err, ErrInvalidParam):
		return "invalid_param"
	}
	return "other"
}
