package collector

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"StrategyScout/internal/model"
)

// Collector turns raw fetcher output into validated price series.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the daily bars of symbol for the days preceding now.
// Every failure is returned as *UpstreamFetchError.
func (c *Collector) Collect(ctx context.Context, symbol string, now time.Time, days int) (*model.PriceSeries, error) {
	end := truncateDay(now)
	start := end.AddDate(0, 0, -days)

	records, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, c.fail(symbol, err)
	}
	if len(records) == 0 {
		return nil, c.fail(symbol, errors.New("no bars returned"))
	}

	records = normalize(records)
	series, err := model.NewPriceSeries(symbol, records)
	if err != nil {
		return nil, c.fail(symbol, err)
	}

	log.Debug().Str("symbol", symbol).Str("source", c.Fetcher.Name()).
		Int("bars", series.Len()).Msg("series collected")
	return series, nil
}

func (c *Collector) fail(symbol string, err error) error {
	return &UpstreamFetchError{Symbol: symbol, Source: c.Fetcher.Name(), Err: err}
}

// normalize sorts bars by date and keeps the last bar of each calendar day.
func normalize(records []model.PriceRecord) []model.PriceRecord {
	sorted := make([]model.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, r := range sorted {
		if n := len(out); n > 0 && dayKey(out[n-1].Date) == dayKey(r.Date) {
			out[n-1] = r
			continue
		}
		out = append(out, r)
	}
	return out
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
