package report

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"StrategyScout/internal/collector"
	"StrategyScout/internal/model"
	"StrategyScout/internal/strategy"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)

func generateBars(n int, closeAt func(i int) float64) []model.PriceRecord {
	start := testNow.AddDate(0, 0, -n)
	bars := make([]model.PriceRecord, n)
	for i := range bars {
		c := closeAt(i)
		bars[i] = model.PriceRecord{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}

func increasing(i int) float64 { return 100 + float64(i) }

type recordingSink struct {
	saved []string
	err   error
}

func (s *recordingSink) SaveSeries(series *model.PriceSeries) error {
	s.saved = append(s.saved, series.Symbol)
	return s.err
}

func testConfig(symbols ...string) Config {
	return Config{
		Symbols:       symbols,
		TimeframeDays: 90,
		Params:        strategy.DefaultParams(),
		Now:           func() time.Time { return testNow },
	}
}

func TestRun_FetchFailureSkipsOnlyThatSymbol(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars:   map[string][]model.PriceRecord{"AAA": generateBars(60, increasing)},
		Errors: map[string]error{"BBB": errors.New("upstream unavailable")},
	}
	sink := &recordingSink{}

	rep, err := NewAggregator(fetcher, sink).Run(context.Background(), testConfig("AAA", "BBB"))
	if err != nil {
		t.Fatalf("run should succeed, got %v", err)
	}
	if len(rep.Symbols) != 2 || len(rep.Order) != 2 {
		t.Fatalf("expected both symbols in report, got %v", rep.Order)
	}

	aaa := rep.Symbols["AAA"]
	if aaa.Status != model.StatusEvaluated {
		t.Fatalf("AAA status = %s, want evaluated", aaa.Status)
	}
	if len(aaa.Results) != 3 {
		t.Errorf("AAA should have 3 strategy results, got %d", len(aaa.Results))
	}
	if aaa.Best == nil || *aaa.Best != model.KindSMA {
		t.Errorf("AAA best = %v, want sma", aaa.Best)
	}
	want := increasing(59)/increasing(19) - 1
	if got := aaa.Results[model.KindSMA].CumulativeReturn; math.Abs(got-want) > 1e-12 {
		t.Errorf("AAA sma return = %.6f, want %.6f", got, want)
	}

	bbb := rep.Symbols["BBB"]
	if bbb.Status != model.StatusSkipped || bbb.Reason != model.ReasonFetchFailed {
		t.Errorf("BBB = %s/%q, want skipped/%q", bbb.Status, bbb.Reason, model.ReasonFetchFailed)
	}
	if bbb.Detail == "" || bbb.Best != nil {
		t.Errorf("BBB should carry error detail and no selection: %+v", bbb)
	}

	if rep.MostProfitable == nil || rep.MostProfitable.Symbol != "AAA" {
		t.Errorf("most profitable = %+v, want AAA", rep.MostProfitable)
	}
	if len(sink.saved) != 1 || sink.saved[0] != "AAA" {
		t.Errorf("sink saved %v, want [AAA]", sink.saved)
	}
	if rep.RunID == "" || !rep.GeneratedAt.Equal(testNow) {
		t.Errorf("unexpected run metadata %q %s", rep.RunID, rep.GeneratedAt)
	}
}

func TestRun_ShortSeriesIsSkipped(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.PriceRecord{"TINY": generateBars(10, increasing)},
	}
	rep, err := NewAggregator(fetcher, nil).Run(context.Background(), testConfig("TINY"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tiny := rep.Symbols["TINY"]
	if tiny.Status != model.StatusSkipped || tiny.Reason != model.ReasonNoStrategy {
		t.Errorf("TINY = %s/%q, want skipped/%q", tiny.Status, tiny.Reason, model.ReasonNoStrategy)
	}
	if len(tiny.Failures) != 3 {
		t.Errorf("expected 3 recorded failures, got %d", len(tiny.Failures))
	}
	if rep.MostProfitable != nil {
		t.Errorf("expected no most profitable, got %+v", rep.MostProfitable)
	}
}

func TestRun_SinkErrorDoesNotFailSymbol(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.PriceRecord{"AAA": generateBars(60, increasing)},
	}
	sink := &recordingSink{err: errors.New("disk full")}
	rep, err := NewAggregator(fetcher, sink).Run(context.Background(), testConfig("AAA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Symbols["AAA"].Status != model.StatusEvaluated {
		t.Errorf("sink failure must not change the report")
	}
}

func TestRun_InvalidConfigFailsBeforeFetching(t *testing.T) {
	bad := testConfig("AAA")
	bad.Params.SMAShort = bad.Params.SMALong

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no symbols", testConfig()},
		{"invalid params", bad},
		{"zero timeframe", Config{Symbols: []string{"AAA"}, Params: strategy.DefaultParams()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &collector.MockFetcher{}
			if _, err := NewAggregator(fetcher, nil).Run(context.Background(), tt.cfg); err == nil {
				t.Fatal("expected error")
			}
			if len(fetcher.Calls) != 0 {
				t.Errorf("fetcher called %v before config was validated", fetcher.Calls)
			}
		})
	}
}

// cancellingFetcher cancels the run while serving the first symbol.
type cancellingFetcher struct {
	collector.MockFetcher
	cancel context.CancelFunc
}

func (f *cancellingFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceRecord, error) {
	bars, err := f.MockFetcher.FetchDailyBars(ctx, symbol, start, end)
	f.cancel()
	return bars, err
}

func TestRun_CancelledMidRunReturnsPartialReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetcher := &cancellingFetcher{
		MockFetcher: collector.MockFetcher{Bars: map[string][]model.PriceRecord{"AAA": generateBars(60, increasing)}},
		cancel:      cancel,
	}

	rep, err := NewAggregator(fetcher, nil).Run(ctx, testConfig("AAA", "BBB", "CCC"))
	if err != nil {
		t.Fatalf("cancelled run should return its partial report, got %v", err)
	}
	if len(rep.Order) != 3 {
		t.Fatalf("expected every configured symbol in the report, got %v", rep.Order)
	}
	if rep.Symbols["AAA"].Status != model.StatusEvaluated {
		t.Errorf("AAA was fetched before cancellation and should be evaluated, got %s", rep.Symbols["AAA"].Status)
	}
	for _, symbol := range []string{"BBB", "CCC"} {
		sr := rep.Symbols[symbol]
		if sr.Status != model.StatusSkipped || sr.Reason != model.ReasonCancelled {
			t.Errorf("%s = %s/%q, want skipped/%q", symbol, sr.Status, sr.Reason, model.ReasonCancelled)
		}
	}
	if len(fetcher.Calls) != 1 {
		t.Errorf("expected no fetch after cancellation, got calls %v", fetcher.Calls)
	}
}

func TestRun_AlreadyCancelledFetchesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &collector.MockFetcher{}
	rep, err := NewAggregator(fetcher, nil).Run(ctx, testConfig("AAA"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr := rep.Symbols["AAA"]; sr.Reason != model.ReasonCancelled {
		t.Errorf("AAA reason = %q, want %q", sr.Reason, model.ReasonCancelled)
	}
	if len(fetcher.Calls) != 0 {
		t.Errorf("fetcher called %v after cancellation", fetcher.Calls)
	}
}

func TestMostProfitable_TieKeepsFirstSymbol(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.PriceRecord{
			"FIRST":  generateBars(60, increasing),
			"SECOND": generateBars(60, increasing),
		},
	}
	rep, err := NewAggregator(fetcher, nil).Run(context.Background(), testConfig("SECOND", "FIRST"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.MostProfitable == nil || rep.MostProfitable.Symbol != "SECOND" {
		t.Errorf("tie should go to first configured symbol, got %+v", rep.MostProfitable)
	}
}

func TestEvaluate_InvalidParamsReportsEvaluationFailed(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.PriceRecord{"AAA": generateBars(60, increasing)}}
	cfg := testConfig("AAA")
	cfg.Params.SMAShort = cfg.Params.SMALong

	sr := NewAggregator(fetcher, nil).evaluate(context.Background(), zerolog.Nop(), "AAA", testNow, cfg)
	if sr.Status != model.StatusSkipped {
		t.Fatalf("expected skipped, got %s", sr.Status)
	}
	if sr.Reason != model.ReasonEvaluationFailed {
		t.Errorf("reason = %q, want %q", sr.Reason, model.ReasonEvaluationFailed)
	}
	if sr.Reason == model.ReasonNoStrategy {
		t.Error("unexpected errors must not be reported as no strategy evaluable")
	}
}
