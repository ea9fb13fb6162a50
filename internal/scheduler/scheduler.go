package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StrategyScout/internal/broker"
	"StrategyScout/internal/metrics"
	"StrategyScout/internal/model"
	"StrategyScout/internal/notifier"
	"StrategyScout/internal/recorder"
	"StrategyScout/internal/report"
	"StrategyScout/internal/store"
)

// ErrRunInProgress is returned when a run is requested while another runs.
var ErrRunInProgress = errors.New("a run is already in progress")

// Runner produces a run report.
type Runner interface {
	Run(ctx context.Context, cfg report.Config) (*model.RunReport, error)
}

// Dispatcher acts on the final signals of a report.
type Dispatcher interface {
	Dispatch(ctx context.Context, rep *model.RunReport) []broker.Execution
}

// Options wires the collaborators of a Scheduler. Dispatcher and Notifier
// may be nil.
type Options struct {
	Runner      Runner
	RunConfig   report.Config
	ResultsFile string
	Dispatcher  Dispatcher
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
}

// Scheduler runs evaluations on a cron schedule or on demand and keeps the
// latest report for readers.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context

	opts   Options
	runMu  sync.Mutex
	mu     sync.RWMutex
	latest *model.RunReport
	logger zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, opts Options) *Scheduler {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Ctx:    ctx,
		opts:   opts,
		logger: log.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules the evaluation run.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// Latest returns the most recent report, or nil before the first run.
func (s *Scheduler) Latest() *model.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// SetLatest seeds the latest report, e.g. from a previous process.
func (s *Scheduler) SetLatest(rep *model.RunReport) {
	s.mu.Lock()
	s.latest = rep
	s.mu.Unlock()
}

func (s *Scheduler) runTask() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled run failed")
	}
}

// RunNow executes one full run: evaluate, persist, trade, notify. Only the
// evaluation can fail the run; later steps log their errors.
func (s *Scheduler) RunNow(ctx context.Context) (*model.RunReport, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	rep, err := s.opts.Runner.Run(ctx, s.opts.RunConfig)
	if err != nil {
		metrics.Runs.WithLabelValues("failed").Inc()
		s.trySend(ctx, fmt.Sprintf("❌ Run failed: %v", err))
		return nil, err
	}
	s.SetLatest(rep)

	if s.opts.ResultsFile != "" {
		if err := store.SaveReport(s.opts.ResultsFile, rep); err != nil {
			s.logger.Error().Err(err).Msg("save report")
		}
	}
	if err := s.opts.Recorder.RecordRun(rep); err != nil {
		s.logger.Error().Err(err).Msg("record run")
	}

	var execs []broker.Execution
	if s.opts.Dispatcher != nil {
		execs = s.opts.Dispatcher.Dispatch(ctx, rep)
		s.recordOrders(rep.RunID, execs)
	}

	s.trySend(ctx, notifier.FormatRunSummary(rep, execs))
	return rep, nil
}

func (s *Scheduler) recordOrders(runID string, execs []broker.Execution) {
	for _, e := range execs {
		side, _ := broker.SideFor(e.Signal)
		evt := &recorder.OrderEvent{
			RunID:    runID,
			Symbol:   e.Symbol,
			Strategy: e.Strategy.String(),
			Side:     string(side),
		}
		if e.Err != nil {
			evt.Status = "error"
			evt.Error = e.Err.Error()
		} else {
			evt.Qty = e.Order.Qty.String()
			evt.OrderID = e.Order.ID
			evt.Status = e.Order.Status
		}
		if err := s.opts.Recorder.RecordOrder(evt); err != nil {
			s.logger.Error().Err(err).Str("symbol", e.Symbol).Msg("record order")
		}
	}
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, args string) string {
	switch command {
	case "report":
		rep := s.Latest()
		if rep == nil {
			return "No report yet. Send /run to start one."
		}
		if args == "" {
			return notifier.FormatRunSummary(rep, nil)
		}
		symbol := strings.ToUpper(args)
		sr, ok := rep.Symbols[symbol]
		if !ok {
			return fmt.Sprintf("%s is not part of the last run.", symbol)
		}
		return notifier.FormatSymbolDetail(&sr)
	case "run":
		go func() {
			if _, err := s.RunNow(s.Ctx); err != nil {
				s.logger.Warn().Err(err).Msg("manual run failed")
				if errors.Is(err, ErrRunInProgress) {
					s.trySend(s.Ctx, "⏳ A run is already in progress.")
				}
			}
		}()
		return "🚀 Run started."
	case "history":
		runs, err := s.opts.Recorder.RecentRuns(5)
		if err != nil {
			return fmt.Sprintf("History unavailable: %v", err)
		}
		return notifier.FormatHistory(runs)
	default:
		return "Commands:\n/report [SYMBOL] show the last run\n/run start a run now\n/history recent runs"
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.opts.Notifier == nil {
		return
	}
	if err := s.opts.Notifier.Send(ctx, text); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
