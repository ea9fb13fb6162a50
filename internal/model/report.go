package model

import "time"

// StrategyResult is the outcome of one strategy on one symbol.
type StrategyResult struct {
	Kind             StrategyKind  `json:"strategy"`
	Signals          []SignalPoint `json:"signals"`
	CumulativeReturn float64       `json:"cumulative_return"`
	Trades           int           `json:"trades"`
	BuySignals       int           `json:"buy_signals"`
	SellSignals      int           `json:"sell_signals"`
	OpenAtEnd        bool          `json:"open_at_end"`
}

// FinalSignal returns the signal at the last evaluated index, HOLD if none.
func (r *StrategyResult) FinalSignal() Signal {
	if len(r.Signals) == 0 {
		return SignalHold
	}
	return r.Signals[len(r.Signals)-1].Signal
}

// SymbolStatus tells whether a symbol was evaluated.
type SymbolStatus string

const (
	StatusEvaluated SymbolStatus = "evaluated"
	StatusSkipped   SymbolStatus = "skipped"
)

const (
	ReasonFetchFailed      = "fetch failed"
	ReasonNoStrategy       = "no strategy evaluable"
	ReasonCancelled        = "cancelled"
	ReasonEvaluationFailed = "evaluation failed"
)

// SymbolReport collects every strategy result for one symbol.
type SymbolReport struct {
	Symbol   string                          `json:"symbol"`
	Status   SymbolStatus                    `json:"status"`
	Reason   string                          `json:"reason,omitempty"`
	Detail   string                          `json:"detail,omitempty"`
	Bars     int                             `json:"bars"`
	Results  map[StrategyKind]StrategyResult `json:"strategies"`
	Failures map[StrategyKind]string         `json:"failures,omitempty"`
	Best     *StrategyKind                   `json:"best_strategy"`
}

// BestResult returns the selected result, or false when nothing was selected.
func (r *SymbolReport) BestResult() (StrategyResult, bool) {
	if r.Best == nil {
		return StrategyResult{}, false
	}
	res, ok := r.Results[*r.Best]
	return res, ok
}

// MostProfitable is the best (symbol, strategy) pair across a run.
type MostProfitable struct {
	Symbol           string       `json:"symbol"`
	Strategy         StrategyKind `json:"strategy"`
	CumulativeReturn float64      `json:"cumulative_return"`
}

// RunReport is the persisted artifact of one run.
type RunReport struct {
	RunID          string                  `json:"run_id"`
	GeneratedAt    time.Time               `json:"generated_at"`
	TimeframeDays  int                     `json:"timeframe_days"`
	Symbols        map[string]SymbolReport `json:"results"`
	Order          []string                `json:"symbols"`
	MostProfitable *MostProfitable         `json:"most_profitable"`
}

// Counts returns the number of evaluated and skipped symbols.
func (r *RunReport) Counts() (evaluated, skipped int) {
	for _, s := range r.Symbols {
		if s.Status == StatusEvaluated {
			evaluated++
		} else {
			skipped++
		}
	}
	return evaluated, skipped
}
