package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StrategyScout/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the HTTP server read history while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id         TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			timeframe_days INTEGER,
			evaluated      INTEGER,
			skipped        INTEGER,
			best_symbol    TEXT,
			best_strategy  TEXT,
			best_return    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS symbol_results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			status        TEXT,
			reason        TEXT,
			detail        TEXT,
			bars          INTEGER,
			best_strategy TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbol_results_run ON symbol_results(run_id)`,

		`CREATE TABLE IF NOT EXISTS strategy_results (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			symbol            TEXT NOT NULL,
			strategy          TEXT NOT NULL,
			cumulative_return REAL,
			trades            INTEGER,
			buy_signals       INTEGER,
			sell_signals      INTEGER,
			open_at_end       INTEGER,
			final_signal      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_strategy_results_run ON strategy_results(run_id, symbol)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			run_id    TEXT,
			symbol    TEXT,
			strategy  TEXT,
			side      TEXT,
			qty       TEXT,
			order_id  TEXT,
			status    TEXT,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_run ON orders(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run row and one row per symbol and strategy in a
// single transaction.
func (r *SQLiteRecorder) RecordRun(rep *model.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	evaluated, skipped := rep.Counts()
	var bestSymbol, bestStrategy string
	var bestReturn float64
	if mp := rep.MostProfitable; mp != nil {
		bestSymbol, bestStrategy, bestReturn = mp.Symbol, mp.Strategy.String(), mp.CumulativeReturn
	}
	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, timestamp, timeframe_days, evaluated, skipped, best_symbol, best_strategy, best_return)
		VALUES (?,?,?,?,?,?,?,?)`,
		rep.RunID, rep.GeneratedAt.Unix(), rep.TimeframeDays, evaluated, skipped,
		bestSymbol, bestStrategy, bestReturn,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, symbol := range rep.Order {
		sr := rep.Symbols[symbol]
		best := ""
		if sr.Best != nil {
			best = sr.Best.String()
		}
		if _, err := tx.Exec(`INSERT INTO symbol_results
			(run_id, symbol, status, reason, detail, bars, best_strategy)
			VALUES (?,?,?,?,?,?,?)`,
			rep.RunID, symbol, string(sr.Status), sr.Reason, sr.Detail, sr.Bars, best,
		); err != nil {
			return fmt.Errorf("insert symbol %s: %w", symbol, err)
		}

		for _, kind := range model.AllKinds {
			res, ok := sr.Results[kind]
			if !ok {
				continue
			}
			if _, err := tx.Exec(`INSERT INTO strategy_results
				(run_id, symbol, strategy, cumulative_return, trades, buy_signals, sell_signals, open_at_end, final_signal)
				VALUES (?,?,?,?,?,?,?,?,?)`,
				rep.RunID, symbol, kind.String(), res.CumulativeReturn, res.Trades,
				res.BuySignals, res.SellSignals, res.OpenAtEnd, string(res.FinalSignal()),
			); err != nil {
				return fmt.Errorf("insert %s/%s: %w", symbol, kind, err)
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO orders
		(timestamp, run_id, symbol, strategy, side, qty, order_id, status, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RunID, evt.Symbol, evt.Strategy, evt.Side,
		evt.Qty, evt.OrderID, evt.Status, evt.Error,
	)
	return err
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := r.db.Query(`SELECT run_id, timestamp, timeframe_days, evaluated, skipped,
		best_symbol, best_strategy, best_return
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var ts int64
		if err := rows.Scan(&s.RunID, &ts, &s.TimeframeDays, &s.Evaluated, &s.Skipped,
			&s.BestSymbol, &s.BestStrategy, &s.BestReturn); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.GeneratedAt = time.Unix(ts, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
