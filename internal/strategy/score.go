package strategy

import "StrategyScout/internal/model"

// Performance is the outcome of simulating one signal sequence.
type Performance struct {
	CumulativeReturn float64
	Trades           int
	OpenAtEnd        bool
	BuySignals       int
	SellSignals      int
}

// Score simulates a single long position with one unit of capital.
// BUY while flat enters at that close, SELL while long exits and compounds.
// A position still open at the end is marked to market at the final close.
func Score(series *model.PriceSeries, signals []model.SignalPoint) Performance {
	var perf Performance
	growth := 1.0
	entry := 0.0
	open := false

	for _, p := range signals {
		price := series.Records[p.Index].Close
		switch p.Signal {
		case model.SignalBuy:
			perf.BuySignals++
			if !open {
				open = true
				entry = price
			}
		case model.SignalSell:
			perf.SellSignals++
			if open {
				growth *= price / entry
				open = false
				perf.Trades++
			}
		}
	}

	if open {
		last := series.Records[series.Len()-1].Close
		growth *= last / entry
		perf.OpenAtEnd = true
	}

	perf.CumulativeReturn = growth - 1
	return perf
}
