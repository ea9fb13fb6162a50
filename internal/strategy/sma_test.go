package strategy

import (
	"errors"
	"math"
	"testing"

	"StrategyScout/internal/calculator"
	"StrategyScout/internal/model"
)

func TestSMA_IncreasingSeriesSingleBuy(t *testing.T) {
	s := generateSeries(t, 60, func(i int) float64 { return 100 + float64(i) })

	points, err := SMA(s, 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 41 {
		t.Fatalf("expected 41 signal points, got %d", len(points))
	}
	if points[0].Index != 19 || points[0].Signal != model.SignalBuy {
		t.Errorf("expected BUY at index 19, got %s at %d", points[0].Signal, points[0].Index)
	}
	if n := countSignals(points, model.SignalBuy); n != 1 {
		t.Errorf("expected exactly 1 BUY, got %d", n)
	}
	if n := countSignals(points, model.SignalSell); n != 0 {
		t.Errorf("expected no SELL, got %d", n)
	}

	perf := Score(s, points)
	want := s.Records[59].Close/s.Records[19].Close - 1
	if perf.CumulativeReturn != want {
		t.Errorf("expected cumulative return %.6f, got %.6f", want, perf.CumulativeReturn)
	}
	if perf.Trades != 0 || !perf.OpenAtEnd {
		t.Errorf("expected open position and 0 trades, got trades=%d open=%v", perf.Trades, perf.OpenAtEnd)
	}
}

func TestSMA_CrossoverProperty(t *testing.T) {
	// A wave forces several crossings in both directions.
	closes := generateCloses(120, func(i int) float64 { return 100 + 10*math.Sin(float64(i)/6) })
	s := seriesFromCloses(t, closes)
	short, long := 5, 20

	points, err := SMA(s, short, long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shortMA, _ := calculator.RollingMean(closes, short)
	longMA, _ := calculator.RollingMean(closes, long)

	for _, p := range points {
		i := p.Index
		if i < long {
			continue
		}
		want := model.SignalHold
		switch {
		case shortMA[i-1] <= longMA[i-1] && shortMA[i] > longMA[i]:
			want = model.SignalBuy
		case shortMA[i-1] >= longMA[i-1] && shortMA[i] < longMA[i]:
			want = model.SignalSell
		}
		if p.Signal != want {
			t.Errorf("index %d: expected %s, got %s", i, want, p.Signal)
		}
	}
	if countSignals(points, model.SignalBuy) == 0 || countSignals(points, model.SignalSell) == 0 {
		t.Error("expected crossings in both directions")
	}
}

func TestSMA_FirstPointDecreasing(t *testing.T) {
	s := generateSeries(t, 25, func(i int) float64 { return 200 - float64(i) })
	points, err := SMA(s, 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].Signal != model.SignalSell {
		t.Errorf("expected SELL at first evaluable index, got %s", points[0].Signal)
	}
	if perf := Score(s, points); perf.CumulativeReturn != 0 || perf.Trades != 0 {
		t.Errorf("SELL while flat must be a no-op, got %+v", perf)
	}
}

func TestSMA_InsufficientData(t *testing.T) {
	s := generateSeries(t, 19, func(i int) float64 { return 100 })
	_, err := SMA(s, 5, 20)
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ide.Kind != model.KindSMA || ide.Required != 20 || ide.Got != 19 {
		t.Errorf("unexpected error fields: %+v", ide)
	}
}

func TestSMA_InvalidWindows(t *testing.T) {
	s := generateSeries(t, 60, func(i int) float64 { return 100 })
	tests := []struct {
		short, long int
	}{
		{1, 20},
		{20, 20},
		{21, 20},
	}
	for _, tt := range tests {
		if _, err := SMA(s, tt.short, tt.long); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("short=%d long=%d: expected ErrInvalidParams, got %v", tt.short, tt.long, err)
		}
	}
}

func TestSMA_FlatSeriesHolds(t *testing.T) {
	tests := []struct {
		name  string
		price float64
	}{
		{"tenth", 0.1},
		{"thirteen cents", 0.13},
		{"nine ninety-nine", 9.99},
		{"seventeen", 17.17},
		{"hundred", 101.13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := generateSeries(t, 30, func(int) float64 { return tt.price })
			points, err := SMA(s, 5, 20)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(points) != 11 {
				t.Fatalf("expected 11 signal points, got %d", len(points))
			}
			for _, p := range points {
				if p.Signal != model.SignalHold {
					t.Fatalf("expected only HOLD on a flat series, got %s at index %d", p.Signal, p.Index)
				}
			}
			if perf := Score(s, points); perf.CumulativeReturn != 0 || perf.OpenAtEnd {
				t.Errorf("expected no position, got %+v", perf)
			}
		})
	}
}

func TestSMA_TurnsFlatAfterRiseNoFalseCross(t *testing.T) {
	// Rises for 25 bars then stays flat: the short average catches up with
	// the flat level first, so it stays above the long one and no SELL fires.
	s := generateSeries(t, 60, func(i int) float64 {
		if i < 25 {
			return 10 + 0.37*float64(i)
		}
		return 10 + 0.37*24
	})
	points, err := SMA(s, 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countSignals(points, model.SignalBuy); n != 1 {
		t.Errorf("expected exactly 1 BUY, got %d", n)
	}
	if n := countSignals(points, model.SignalSell); n != 0 {
		t.Errorf("expected no SELL, got %d", n)
	}
}
