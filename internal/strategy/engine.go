package strategy

import (
	"errors"
	"fmt"

	"StrategyScout/internal/model"
)

// Signals computes the signal sequence of one strategy.
func Signals(kind model.StrategyKind, series *model.PriceSeries, p Params) ([]model.SignalPoint, error) {
	switch kind {
	case model.KindSMA:
		return SMA(series, p.SMAShort, p.SMALong)
	case model.KindMR:
		return MeanReversion(series, p.MRWindow, p.MRThreshold)
	case model.KindBB:
		return BollingerBands(series, p.BBWindow, p.BBK)
	default:
		return nil, fmt.Errorf("unsupported strategy %s", kind)
	}
}

// Evaluate runs one strategy over a series and scores it.
func Evaluate(kind model.StrategyKind, series *model.PriceSeries, p Params) (model.StrategyResult, error) {
	signals, err := Signals(kind, series, p)
	if err != nil {
		return model.StrategyResult{}, err
	}
	perf := Score(series, signals)
	return model.StrategyResult{
		Kind:             kind,
		Signals:          signals,
		CumulativeReturn: perf.CumulativeReturn,
		Trades:           perf.Trades,
		BuySignals:       perf.BuySignals,
		SellSignals:      perf.SellSignals,
		OpenAtEnd:        perf.OpenAtEnd,
	}, nil
}

// Select picks the result with the strictly greatest cumulative return.
// Ties go to the kind that comes first in model.AllKinds.
func Select(results map[model.StrategyKind]model.StrategyResult) (model.StrategyKind, bool) {
	var best model.StrategyKind
	found := false
	for _, k := range model.AllKinds {
		r, ok := results[k]
		if !ok {
			continue
		}
		if !found || r.CumulativeReturn > results[best].CumulativeReturn {
			best = k
			found = true
		}
	}
	return best, found
}

// EvaluateSymbol runs every strategy over a series and selects the best one.
// Strategies lacking data are recorded in Failures. When none is evaluable
// the returned report is marked skipped and ErrNoEvaluableStrategy is returned
// alongside it.
func EvaluateSymbol(series *model.PriceSeries, p Params) (*model.SymbolReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rep := &model.SymbolReport{
		Symbol:   series.Symbol,
		Bars:     series.Len(),
		Results:  make(map[model.StrategyKind]model.StrategyResult, len(model.AllKinds)),
		Failures: make(map[model.StrategyKind]string),
	}

	for _, kind := range model.AllKinds {
		res, err := Evaluate(kind, series, p)
		if err != nil {
			var insufficientErr *InsufficientDataError
			if errors.As(err, &insufficientErr) {
				rep.Failures[kind] = err.Error()
				continue
			}
			return nil, fmt.Errorf("evaluate %s: %w", kind, err)
		}
		rep.Results[kind] = res
	}

	best, ok := Select(rep.Results)
	if !ok {
		rep.Status = model.StatusSkipped
		rep.Reason = model.ReasonNoStrategy
		return rep, ErrNoEvaluableStrategy
	}
	rep.Status = model.StatusEvaluated
	rep.Best = &best
	return rep, nil
}
