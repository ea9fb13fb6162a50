package recorder

import (
	"time"

	"StrategyScout/internal/model"
)

// OrderEvent records one order submission attempt.
type OrderEvent struct {
	RunID    string
	Symbol   string
	Strategy string
	Side     string
	Qty      string
	OrderID  string
	Status   string
	Error    string
}

// RunSummary is one row of run history.
type RunSummary struct {
	RunID         string
	GeneratedAt   time.Time
	TimeframeDays int
	Evaluated     int
	Skipped       int
	BestSymbol    string
	BestStrategy  string
	BestReturn    float64
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(rep *model.RunReport) error
	RecordOrder(evt *OrderEvent) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
