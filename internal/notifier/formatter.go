package notifier

import (
	"fmt"
	"html"
	"strings"

	"StrategyScout/internal/broker"
	"StrategyScout/internal/model"
	"StrategyScout/internal/recorder"
)

// FormatRunSummary formats a run report and its orders into a Telegram message.
func FormatRunSummary(rep *model.RunReport, execs []broker.Execution) string {
	var b strings.Builder

	evaluated, skipped := rep.Counts()
	b.WriteString(fmt.Sprintf("📊 <b>StrategyScout</b> | %s\n", rep.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Timeframe: %d days | evaluated %d, skipped %d\n\n", rep.TimeframeDays, evaluated, skipped))

	for _, symbol := range rep.Order {
		sr := rep.Symbols[symbol]
		b.WriteString(FormatSymbolLine(&sr))
		b.WriteString("\n")
	}

	if mp := rep.MostProfitable; mp != nil {
		b.WriteString(fmt.Sprintf("\n🏆 <b>Most profitable:</b> %s with %s (%+.2f%%)\n",
			html.EscapeString(mp.Symbol), mp.Strategy, mp.CumulativeReturn*100))
	}

	if len(execs) > 0 {
		b.WriteString("\n💰 <b>Orders:</b>\n")
		for _, e := range execs {
			if e.Err != nil {
				b.WriteString(fmt.Sprintf("  ❌ %s %s: %s\n", e.Signal, html.EscapeString(e.Symbol), html.EscapeString(e.Err.Error())))
				continue
			}
			b.WriteString(fmt.Sprintf("  ✅ %s %s %s (%s)\n", e.Order.Side, e.Order.Qty, html.EscapeString(e.Symbol), e.Order.Status))
		}
	}
	return b.String()
}

// FormatSymbolLine renders one symbol as a single line.
func FormatSymbolLine(sr *model.SymbolReport) string {
	sym := html.EscapeString(sr.Symbol)
	best, ok := sr.BestResult()
	if sr.Status != model.StatusEvaluated || !ok {
		return fmt.Sprintf("⚠️ %s: skipped (%s)", sym, sr.Reason)
	}
	return fmt.Sprintf("• <b>%s</b>: %s %+.2f%%, %d trades, signal %s",
		sym, best.Kind, best.CumulativeReturn*100, best.Trades, best.FinalSignal())
}

// FormatSymbolDetail lists every strategy result of one symbol.
func FormatSymbolDetail(sr *model.SymbolReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%s</b> (%d bars)\n", html.EscapeString(sr.Symbol), sr.Bars))
	if sr.Status != model.StatusEvaluated {
		b.WriteString(fmt.Sprintf("Skipped: %s\n", sr.Reason))
		if sr.Detail != "" {
			b.WriteString(html.EscapeString(sr.Detail) + "\n")
		}
		return b.String()
	}
	for _, kind := range model.AllKinds {
		res, ok := sr.Results[kind]
		if !ok {
			b.WriteString(fmt.Sprintf("  %s: n/a\n", kind))
			continue
		}
		marker := "  "
		if sr.Best != nil && *sr.Best == kind {
			marker = "★ "
		}
		b.WriteString(fmt.Sprintf("%s%s: %+.2f%% | trades %d | buys %d sells %d | last %s\n",
			marker, kind, res.CumulativeReturn*100, res.Trades, res.BuySignals, res.SellSignals, res.FinalSignal()))
	}
	return b.String()
}

// FormatHistory formats recent runs, newest first.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n")
	for _, r := range runs {
		line := fmt.Sprintf("%s: %d evaluated, %d skipped", r.GeneratedAt.Format("2006-01-02 15:04"), r.Evaluated, r.Skipped)
		if r.BestSymbol != "" {
			line += fmt.Sprintf(", best %s/%s %+.2f%%", html.EscapeString(r.BestSymbol), r.BestStrategy, r.BestReturn*100)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
