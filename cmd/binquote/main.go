package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "binquote"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "GARCH Monte-Carlo bid/ask engine for BTC binary contracts",
		Version: version,
		Long: `binquote prices short-horizon binary contracts on BTC from a fitted
GARCH(1,1) model: Monte-Carlo settlement simulation with a closed-form
digital cross-check, quoted as probability bid/ask per strike.

The GARCH parameter triple comes from the offline fit job's JSON file;
spot and volatility feeds are wired through config.`,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to quote.yaml (defaults apply when empty)")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price one ladder of contracts at the given spot",
		Long:  "Runs a single pricing tick: simulate both jittered horizons, quote every strike on the ladder, print the board",
		RunE:  runQuote,
	}
	quoteCmd.Flags().Float64("spot", 0, "Current spot price (required)")
	quoteCmd.Flags().Uint64("seed", 0, "Simulation seed override (0 keeps config/time seeding)")
	quoteCmd.Flags().Bool("stub-vol", false, "Use constant stub volatility sources instead of configured feeds")
	quoteCmd.Flags().StringSlice("tickers", nil, "Explicit market codes to quote instead of the synthetic ladder")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Serve /health and /metrics",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("listen", "", "Listen address override (default from config)")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(monitorCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
