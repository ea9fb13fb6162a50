// scout evaluates technical trading strategies across a set of stocks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configPath string
	symbols    string
	timeframe  int
	trade      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scout",
		Short: "Strategy evaluation for daily stock prices",
		Long: `scout fetches daily prices for the configured stocks, evaluates
moving-average crossover, mean reversion and Bollinger Bands strategies,
selects the most profitable strategy per stock and optionally places
paper trades on its final signal.`,
		SilenceUsage: true,
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&symbols, "symbols", "s", "", "Comma-separated symbols, overrides config and STOCKS")
	rootCmd.PersistentFlags().IntVarP(&timeframe, "timeframe", "t", 0, "Days of history to evaluate, overrides config and TIMEFRAME")
	rootCmd.PersistentFlags().BoolVar(&trade, "trade", false, "Submit orders for final signals, overrides trading.enabled")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scout version %s\n", version)
		},
	}
}
