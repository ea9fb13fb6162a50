package broker

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"StrategyScout/internal/metrics"
	"StrategyScout/internal/model"
)

// Execution is the outcome of acting on one symbol's final signal.
type Execution struct {
	Symbol   string
	Strategy model.StrategyKind
	Signal   model.Signal
	Order    *Order
	Err      error
}

// Dispatcher turns the selected strategy's final signal of every evaluated
// symbol into an order.
type Dispatcher struct {
	submitter OrderSubmitter
	qty       decimal.Decimal
	logger    zerolog.Logger
}

func NewDispatcher(submitter OrderSubmitter, qty decimal.Decimal) *Dispatcher {
	return &Dispatcher{
		submitter: submitter,
		qty:       qty,
		logger:    log.With().Str("component", "dispatcher").Str("broker", submitter.Name()).Logger(),
	}
}

// Dispatch submits one order per evaluated symbol whose final signal is BUY
// or SELL. Submission errors are returned in the executions and never abort
// the remaining symbols.
func (d *Dispatcher) Dispatch(ctx context.Context, rep *model.RunReport) []Execution {
	var execs []Execution
	for _, symbol := range rep.Order {
		sr := rep.Symbols[symbol]
		best, ok := sr.BestResult()
		if sr.Status != model.StatusEvaluated || !ok {
			continue
		}
		sig := best.FinalSignal()
		side, ok := SideFor(sig)
		if !ok {
			d.logger.Debug().Str("symbol", symbol).Msg("hold, no order")
			continue
		}

		exec := Execution{Symbol: symbol, Strategy: best.Kind, Signal: sig}
		exec.Order, exec.Err = d.submitter.SubmitOrder(ctx, OrderRequest{
			Symbol:        symbol,
			Side:          side,
			Qty:           d.qty,
			ClientOrderID: rep.RunID + "-" + symbol,
		})
		if exec.Err != nil {
			metrics.Orders.WithLabelValues(string(side), "error").Inc()
			d.logger.Error().Err(exec.Err).Str("symbol", symbol).Str("side", string(side)).Msg("order failed")
		} else {
			metrics.Orders.WithLabelValues(string(side), "submitted").Inc()
			d.logger.Info().Str("symbol", symbol).Str("side", string(side)).Str("order_id", exec.Order.ID).
				Str("strategy", best.Kind.String()).Msg("order submitted")
		}
		execs = append(execs, exec)
	}
	return execs
}
