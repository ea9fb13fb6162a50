package strategy

import (
	"errors"
	"math"
	"testing"

	"StrategyScout/internal/calculator"
	"StrategyScout/internal/model"
)

func TestBollinger_FlatSeriesNeverFires(t *testing.T) {
	s := generateSeries(t, 30, func(i int) float64 { return 50 })
	points, err := BollingerBands(s, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countSignals(points, model.SignalBuy) + countSignals(points, model.SignalSell); n != 0 {
		t.Errorf("expected no BUY/SELL on a flat series, got %d", n)
	}
	perf := Score(s, points)
	if perf.CumulativeReturn != 0 || perf.Trades != 0 {
		t.Errorf("expected zero return and trades, got %+v", perf)
	}
}

func TestBollinger_BandTouches(t *testing.T) {
	// With k=1 a single outlier at the end of a short window breaks the band.
	base := []float64{100, 101, 99, 100}
	tests := []struct {
		name string
		last float64
		want model.Signal
	}{
		{"crash below lower band", 80, model.SignalBuy},
		{"spike above upper band", 120, model.SignalSell},
		{"inside the band", 100, model.SignalHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closes := append(append([]float64{}, base...), tt.last)
			s := seriesFromCloses(t, closes)
			points, err := BollingerBands(s, 5, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			last := points[len(points)-1]
			if last.Signal != tt.want {
				t.Errorf("expected %s, got %s", tt.want, last.Signal)
			}
		})
	}
}

func TestBollinger_SignalsSideOfMean(t *testing.T) {
	closes := generateCloses(200, func(i int) float64 {
		return 100 + 15*math.Sin(float64(i)/3) + float64(i%7)
	})
	s := seriesFromCloses(t, closes)
	means, _ := calculator.RollingMean(closes, 10)
	for _, k := range []float64{0.5, 1, 2} {
		points, err := BollingerBands(s, 10, k)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range points {
			c, m := closes[p.Index], means[p.Index]
			if p.Signal == model.SignalBuy && !(c < m) {
				t.Errorf("k=%.1f index %d: BUY with close %.2f not below mean %.2f", k, p.Index, c, m)
			}
			if p.Signal == model.SignalSell && !(c > m) {
				t.Errorf("k=%.1f index %d: SELL with close %.2f not above mean %.2f", k, p.Index, c, m)
			}
		}
	}
}

func TestBollinger_InsufficientData(t *testing.T) {
	s := generateSeries(t, 10, func(i int) float64 { return 100 + float64(i) })
	_, err := BollingerBands(s, 20, 2)
	var ide *InsufficientDataError
	if !errors.As(err, &ide) || ide.Kind != model.KindBB {
		t.Fatalf("expected BB InsufficientDataError, got %v", err)
	}
}
