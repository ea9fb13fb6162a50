package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"StrategyScout/internal/broker"
	"StrategyScout/internal/collector"
	"StrategyScout/internal/config"
	"StrategyScout/internal/metrics"
	"StrategyScout/internal/notifier"
	"StrategyScout/internal/recorder"
	"StrategyScout/internal/report"
	"StrategyScout/internal/scheduler"
	"StrategyScout/internal/store"
)

// app holds the wired collaborators shared by the run and serve commands.
type app struct {
	cfg      *config.Config
	sched    *scheduler.Scheduler
	telegram *notifier.TelegramNotifier
	closers  []func() error
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("symbols") {
		cfg.Symbols = config.ParseSymbols(symbols)
	}
	if cmd.Flags().Changed("timeframe") {
		cfg.TimeframeDays = timeframe
	}
	if cmd.Flags().Changed("trade") {
		cfg.Trading.Enabled = trade
	}
	if err := cfg.SetupLogger(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	metrics.Register()
	a := &app{cfg: cfg}

	fetcher, err := a.buildFetcher(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	opts := scheduler.Options{
		Runner: report.NewAggregator(fetcher, store.NewCSVWriter(cfg.Output.DataDir)),
		RunConfig: report.Config{
			Symbols:       cfg.Symbols,
			TimeframeDays: cfg.TimeframeDays,
			Params:        cfg.Strategy,
		},
		ResultsFile: cfg.Output.ResultsFile,
		Recorder:    a.buildRecorder(),
	}

	if cfg.Trading.Enabled {
		sub := broker.NewAlpacaSubmitter(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
		opts.Dispatcher = broker.NewDispatcher(sub, decimal.NewFromFloat(cfg.Trading.Quantity))
		log.Info().Str("base_url", cfg.Alpaca.BaseURL).Float64("qty", cfg.Trading.Quantity).Msg("trading enabled")
	}

	if cfg.Telegram.BotToken != "" {
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		if err != nil {
			log.Warn().Err(err).Msg("telegram unavailable, notifications disabled")
		} else {
			a.telegram = tn
			opts.Notifier = tn
		}
	}

	a.sched = scheduler.NewScheduler(ctx, opts)
	return a, nil
}

func (a *app) buildFetcher(ctx context.Context) (collector.Fetcher, error) {
	cfg := a.cfg
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(collector.HTTPOptions{
			Proxy:          cfg.DataSource.Proxy,
			Timeout:        cfg.DataSource.Timeout,
			RequestsPerSec: cfg.DataSource.RequestsPerSec,
			MaxRetryTime:   cfg.DataSource.MaxRetryTime,
		})
	}

	if cfg.Cache.RedisAddr == "" {
		return fetcher, nil
	}
	cached, err := collector.NewCachedFetcher(ctx, fetcher, &redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	}, cfg.Cache.Prefix, cfg.Cache.TTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis cache unavailable, fetching directly")
		return fetcher, nil
	}
	a.closers = append(a.closers, cached.Close)
	return cached, nil
}

func (a *app) buildRecorder() recorder.Recorder {
	if a.cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	a.closers = append(a.closers, sr.Close)
	return sr
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}
