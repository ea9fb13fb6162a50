package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "runs_total",
			Help:      "Completed evaluation runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scout",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one evaluation run",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	Symbols = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "symbols_total",
			Help:      "Symbols processed by status and reason",
		},
		[]string{"status", "reason"},
	)

	Selections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "strategy_selected_total",
			Help:      "Times each strategy was selected as best",
		},
		[]string{"strategy"},
	)

	StrategyReturn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scout",
			Name:      "strategy_cumulative_return",
			Help:      "Cumulative return of the last evaluation",
		},
		[]string{"symbol", "strategy"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scout",
			Name:      "orders_total",
			Help:      "Order submissions by side and result",
		},
		[]string{"side", "result"},
	)
)

// Register registers all collectors with the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(Runs, RunDuration, Symbols, Selections, StrategyReturn, Orders)
	})
}
