package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syedjakeer1992/weather-cli-app/internal/config"
	"github.com/syedjakeer1992/weather-cli-app/internal/ingest"
	"github.com/syedjakeer1992/weather-cli-app/internal/provider"
)

var historyCmd = &cobra.Command{
	Use:   "get-historic-weather <location> <api-key> <days>",
	Short: "Backfill daily weather aggregates for the last N days",
	Long: `Fetches the provider's daily aggregate for each of the last <days>
calendar days and stores one record per day. A failed day is logged and
skipped; already stored days are left untouched.`,
	Args: cobra.ExactArgs(3),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	setupLogging()

	location, apiKey := args[0], args[1]
	days, err := strconv.Atoi(args[2])
	if err != nil || days <= 0 {
		return fmt.Errorf("days must be a positive number, got %q", args[2])
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	var opts []provider.Option
	if cfg.Provider.BaseURL != "" {
		opts = append(opts, provider.WithBaseURL(cfg.Provider.BaseURL))
	}
	client := provider.NewClient(opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bf := ingest.NewBackfiller(s, client, slog.Default())
	return bf.Backfill(ctx, location, apiKey, days)
}
