package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syedjakeer1992/weather-cli-app/internal/config"
	"github.com/syedjakeer1992/weather-cli-app/internal/ingest"
	"github.com/syedjakeer1992/weather-cli-app/internal/provider"
)

var collectCmd = &cobra.Command{
	Use:   "get-latest-weather <location> <api-key> <frequency-minutes>",
	Short: "Continuously fetch and store current weather at a fixed cadence",
	Long: `Fetches current conditions for the location immediately, stores them,
and repeats every <frequency-minutes> minutes until interrupted. A failed
cycle is logged and skipped; the loop keeps running.`,
	Args: cobra.ExactArgs(3),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	setupLogging()

	location, apiKey := args[0], args[1]
	frequency, err := strconv.Atoi(args[2])
	if err != nil || frequency <= 0 {
		return fmt.Errorf("frequency must be a positive number of minutes, got %q", args[2])
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

	sched := ingest.NewScheduler(s, client, slog.Default(),
		location, apiKey, time.Duration(frequency)*time.Minute)
	return sched.Run(ctx)
}
