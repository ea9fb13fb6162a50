package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StrategyScout/internal/server"
	"StrategyScout/internal/store"
)

func serveCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run on the cron schedule and serve the latest report over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if rep, err := store.LoadReport(cfg.Output.ResultsFile); err == nil {
				a.sched.SetLatest(rep)
				log.Info().Str("run_id", rep.RunID).Msg("loaded previous report")
			} else if !errors.Is(err, store.ErrNoReport) {
				log.Warn().Err(err).Msg("previous report unreadable")
			}

			if err := a.sched.Register(cfg.Schedule.Cron); err != nil {
				return err
			}
			a.sched.Start()
			defer a.sched.Stop()

			if a.telegram != nil {
				go a.telegram.StartPolling(ctx, a.sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				log.Info().Msg("running evaluation on start")
				go func() {
					if _, err := a.sched.RunNow(ctx); err != nil {
						log.Error().Err(err).Msg("startup run failed")
					}
				}()
			}

			srv := server.New(cfg.Server.Addr, a.sched)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
				log.Info().Msg("shutdown signal received, stopping...")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run an evaluation immediately")
	return cmd
}
