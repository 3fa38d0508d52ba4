package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syedjakeer1992/weather-cli-app/internal/config"
)

var latestCmd = &cobra.Command{
	Use:   "latest <location>",
	Short: "Show the most recent stored observation for a location",
	Args:  cobra.ExactArgs(1),
	RunE:  runLatest,
}

func init() {
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) error {
	setupLogging()
	location := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	rec, err := s.Latest(ctx, location)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Printf("No data available for %s.\n", location)
		return nil
	}

	fmt.Printf("Temperature: %g°C, Humidity: %d%%, Wind Speed: %g, Observed At: %s\n",
		rec.Temperature, rec.Humidity, rec.WindSpeed, rec.ObservedAt)
	return nil
}
