package strategy

import (
	"StrategyScout/internal/calculator"
	"StrategyScout/internal/model"
)

// MeanReversion buys when close sits more than threshold*mean below the
// rolling mean and sells when it sits that far above it.
func MeanReversion(series *model.PriceSeries, window int, threshold float64) ([]model.SignalPoint, error) {
	if err := validateMR(window, threshold); err != nil {
		return nil, err
	}
	if err := insufficient(model.KindMR, window, series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	means, err := calculator.RollingMean(closes, window)
	if err != nil {
		return nil, err
	}

	points := make([]model.SignalPoint, 0, len(closes)-window+1)
	for i := window - 1; i < len(closes); i++ {
		band := threshold * means[i]
		sig := model.SignalHold
		switch {
		case closes[i] < means[i]-band:
			sig = model.SignalBuy
		case closes[i] > means[i]+band:
			sig = model.SignalSell
		}
		points = append(points, signalAt(series, i, sig))
	}
	return points, nil
}
