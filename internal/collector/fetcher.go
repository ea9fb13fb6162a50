package collector

import (
	"context"
	"time"

	"StrategyScout/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyBars returns daily bars with dates in [start, end].
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceRecord, error)
	Name() string
}
