package strategy

import (
	"StrategyScout/internal/calculator"
	"StrategyScout/internal/model"
)

// BollingerBands buys at or below mean-k*sd and sells at or above mean+k*sd.
// A zero-width band (sd == 0) never fires.
func BollingerBands(series *model.PriceSeries, window int, k float64) ([]model.SignalPoint, error) {
	if err := validateBB(window, k); err != nil {
		return nil, err
	}
	if err := insufficient(model.KindBB, window, series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	means, err := calculator.RollingMean(closes, window)
	if err != nil {
		return nil, err
	}
	stds, err := calculator.RollingStdDev(closes, window)
	if err != nil {
		return nil, err
	}

	points := make([]model.SignalPoint, 0, len(closes)-window+1)
	for i := window - 1; i < len(closes); i++ {
		sig := model.SignalHold
		if stds[i] > 0 {
			upper := means[i] + k*stds[i]
			lower := means[i] - k*stds[i]
			switch {
			case closes[i] <= lower:
				sig = model.SignalBuy
			case closes[i] >= upper:
				sig = model.SignalSell
			}
		}
		points = append(points, signalAt(series, i, sig))
	}
	return points, nil
}
