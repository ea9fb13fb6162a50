package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StrategyScout/internal/notifier"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Evaluate all symbols once and write the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.sched.RunNow(ctx)
			if err != nil {
				return err
			}

			for _, symbol := range rep.Order {
				sr := rep.Symbols[symbol]
				fmt.Println(notifier.FormatSymbolLine(&sr))
			}
			if mp := rep.MostProfitable; mp != nil {
				fmt.Printf("\nMost profitable: %s with %s (%+.2f%%)\n", mp.Symbol, mp.Strategy, mp.CumulativeReturn*100)
			}
			log.Info().Str("file", cfg.Output.ResultsFile).Msg("results written")
			return nil
		},
	}
}
