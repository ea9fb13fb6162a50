package strategy

import (
	"StrategyScout/internal/calculator"
	"StrategyScout/internal/model"
)

// SMA emits crossover signals of the short over the long simple moving
// average of close. Signals start at index long-1; the first point compares
// against a neutral previous state.
func SMA(series *model.PriceSeries, short, long int) ([]model.SignalPoint, error) {
	if err := validateSMA(short, long); err != nil {
		return nil, err
	}
	if err := insufficient(model.KindSMA, long, series); err != nil {
		return nil, err
	}

	closes := series.Closes()
	shortMA, err := calculator.RollingMean(closes, short)
	if err != nil {
		return nil, err
	}
	longMA, err := calculator.RollingMean(closes, long)
	if err != nil {
		return nil, err
	}

	first := long - 1
	points := make([]model.SignalPoint, 0, len(closes)-first)
	for i := first; i < len(closes); i++ {
		var prevAbove, prevBelow bool
		if i > first {
			prevAbove = shortMA[i-1] > longMA[i-1]
			prevBelow = shortMA[i-1] < longMA[i-1]
		}

		sig := model.SignalHold
		switch {
		case !prevAbove && shortMA[i] > longMA[i]:
			sig = model.SignalBuy
		case !prevBelow && shortMA[i] < longMA[i]:
			sig = model.SignalSell
		}
		points = append(points, signalAt(series, i, sig))
	}
	return points, nil
}

func signalAt(series *model.PriceSeries, i int, sig model.Signal) model.SignalPoint {
	return model.SignalPoint{Index: i, Date: series.Records[i].Date, Signal: sig}
}
