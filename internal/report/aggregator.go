package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StrategyScout/internal/collector"
	"StrategyScout/internal/metrics"
	"StrategyScout/internal/model"
	"StrategyScout/internal/strategy"
)

// Config is everything one run needs. It is passed explicitly so the
// aggregator never reads process state.
type Config struct {
	Symbols       []string
	TimeframeDays int
	Params        strategy.Params
	Now           func() time.Time
}

// SeriesSink receives every successfully fetched series, e.g. to export it.
type SeriesSink interface {
	SaveSeries(series *model.PriceSeries) error
}

// Aggregator evaluates a set of symbols into a RunReport.
type Aggregator struct {
	collector *collector.Collector
	sink      SeriesSink
	logger    zerolog.Logger
}

// NewAggregator creates an aggregator fetching through f. sink may be nil.
func NewAggregator(f collector.Fetcher, sink SeriesSink) *Aggregator {
	return &Aggregator{
		collector: collector.NewCollector(f),
		sink:      sink,
		logger:    log.With().Str("component", "aggregator").Logger(),
	}
}

// Run evaluates every symbol in order. Invalid configuration is returned
// before anything is fetched; per-symbol failures become skipped entries.
// Once ctx is cancelled the remaining symbols are skipped as cancelled and
// the partial report is returned.
func (a *Aggregator) Run(ctx context.Context, cfg Config) (*model.RunReport, error) {
	if len(cfg.Symbols) == 0 {
		return nil, errors.New("no symbols configured")
	}
	if cfg.TimeframeDays < 1 {
		return nil, fmt.Errorf("timeframe must be at least 1 day, got %d", cfg.TimeframeDays)
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	started := time.Now()
	rep := &model.RunReport{
		RunID:         uuid.NewString(),
		GeneratedAt:   now().UTC(),
		TimeframeDays: cfg.TimeframeDays,
		Symbols:       make(map[string]model.SymbolReport, len(cfg.Symbols)),
	}
	logger := a.logger.With().Str("run_id", rep.RunID).Logger()
	logger.Info().Strs("symbols", cfg.Symbols).Int("timeframe_days", cfg.TimeframeDays).Msg("run started")

	outcome := "completed"
	for _, symbol := range cfg.Symbols {
		if _, seen := rep.Symbols[symbol]; seen {
			continue
		}

		var sr model.SymbolReport
		if err := ctx.Err(); err != nil {
			outcome = "cancelled"
			sr = model.SymbolReport{
				Symbol: symbol,
				Status: model.StatusSkipped,
				Reason: model.ReasonCancelled,
				Detail: err.Error(),
			}
		} else {
			sr = a.evaluate(ctx, logger, symbol, rep.GeneratedAt, cfg)
		}
		rep.Symbols[symbol] = sr
		rep.Order = append(rep.Order, symbol)
		metrics.Symbols.WithLabelValues(string(sr.Status), sr.Reason).Inc()
	}

	rep.MostProfitable = mostProfitable(rep)

	evaluated, skipped := rep.Counts()
	metrics.Runs.WithLabelValues(outcome).Inc()
	metrics.RunDuration.Observe(time.Since(started).Seconds())
	ev := logger.Info().Int("evaluated", evaluated).Int("skipped", skipped).Str("outcome", outcome)
	if mp := rep.MostProfitable; mp != nil {
		ev = ev.Str("best_symbol", mp.Symbol).Str("best_strategy", mp.Strategy.String()).Float64("best_return", mp.CumulativeReturn)
	}
	ev.Msg("run finished")
	return rep, nil
}

func (a *Aggregator) evaluate(ctx context.Context, logger zerolog.Logger, symbol string, now time.Time, cfg Config) model.SymbolReport {
	series, err := a.collector.Collect(ctx, symbol, now, cfg.TimeframeDays)
	if err != nil {
		logger.Warn().Err(err).Str("symbol", symbol).Msg("symbol skipped: fetch failed")
		return model.SymbolReport{
			Symbol: symbol,
			Status: model.StatusSkipped,
			Reason: model.ReasonFetchFailed,
			Detail: err.Error(),
		}
	}

	if a.sink != nil {
		if err := a.sink.SaveSeries(series); err != nil {
			logger.Warn().Err(err).Str("symbol", symbol).Msg("failed to export series")
		}
	}

	sr, err := strategy.EvaluateSymbol(series, cfg.Params)
	if err != nil {
		if errors.Is(err, strategy.ErrNoEvaluableStrategy) && sr != nil {
			logger.Warn().Str("symbol", symbol).Int("bars", series.Len()).Msg("symbol skipped: no strategy evaluable")
			return *sr
		}
		// Params were validated up front, so this is unexpected.
		logger.Error().Err(err).Str("symbol", symbol).Msg("evaluation failed")
		return model.SymbolReport{
			Symbol: symbol,
			Status: model.StatusSkipped,
			Reason: model.ReasonEvaluationFailed,
			Detail: err.Error(),
			Bars:   series.Len(),
		}
	}

	for kind, res := range sr.Results {
		metrics.StrategyReturn.WithLabelValues(symbol, kind.String()).Set(res.CumulativeReturn)
	}
	best, _ := sr.BestResult()
	metrics.Selections.WithLabelValues(best.Kind.String()).Inc()
	logger.Info().
		Str("symbol", symbol).
		Int("bars", sr.Bars).
		Str("best_strategy", best.Kind.String()).
		Float64("return", best.CumulativeReturn).
		Str("final_signal", string(best.FinalSignal())).
		Msg("symbol evaluated")
	return *sr
}

// mostProfitable picks the highest selected return; ties keep the symbol
// that comes first in run order.
func mostProfitable(rep *model.RunReport) *model.MostProfitable {
	var mp *model.MostProfitable
	for _, symbol := range rep.Order {
		sr := rep.Symbols[symbol]
		best, ok := sr.BestResult()
		if !ok {
			continue
		}
		if mp == nil || best.CumulativeReturn > mp.CumulativeReturn {
			mp = &model.MostProfitable{
				Symbol:           symbol,
				Strategy:         best.Kind,
				CumulativeReturn: best.CumulativeReturn,
			}
		}
	}
	return mp
}
