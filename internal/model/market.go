package model

import (
	"fmt"
	"time"
)

// PriceRecord is one daily bar.
type PriceRecord struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily bars of one symbol in ascending date order.
type PriceSeries struct {
	Symbol  string
	Records []PriceRecord
}

// NewPriceSeries validates records and wraps them in a PriceSeries.
// Records must be strictly ascending by calendar date with positive closes.
func NewPriceSeries(symbol string, records []PriceRecord) (*PriceSeries, error) {
	for i, r := range records {
		if r.Close <= 0 {
			return nil, fmt.Errorf("%s: non-positive close %.4f at %s", symbol, r.Close, r.Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		prev := records[i-1].Date
		if sameDay(prev, r.Date) {
			return nil, fmt.Errorf("%s: duplicate date %s", symbol, r.Date.Format("2006-01-02"))
		}
		if r.Date.Before(prev) {
			return nil, fmt.Errorf("%s: records out of order at index %d", symbol, i)
		}
	}
	return &PriceSeries{Symbol: symbol, Records: records}, nil
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Records) }

// Closes extracts the closing prices.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Records))
	for i, r := range s.Records {
		closes[i] = r.Close
	}
	return closes
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
