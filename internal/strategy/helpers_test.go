package strategy

import (
	"testing"
	"time"

	"StrategyScout/internal/model"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func generateSeries(t *testing.T, n int, closeAt func(i int) float64) *model.PriceSeries {
	t.Helper()
	return seriesFromCloses(t, generateCloses(n, closeAt))
}

func generateCloses(n int, closeAt func(i int) float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = closeAt(i)
	}
	return closes
}

func seriesFromCloses(t *testing.T, closes []float64) *model.PriceSeries {
	t.Helper()
	records := make([]model.PriceRecord, len(closes))
	for i, c := range closes {
		records[i] = model.PriceRecord{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000000,
		}
	}
	s, err := model.NewPriceSeries("TEST", records)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return s
}

func countSignals(points []model.SignalPoint, sig model.Signal) int {
	n := 0
	for _, p := range points {
		if p.Signal == sig {
			n++
		}
	}
	return n
}
