package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syedjakeer1992/weather-cli-app/internal/analytics"
	"github.com/syedjakeer1992/weather-cli-app/internal/config"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

var compareCmd = &cobra.Command{
	Use:   "compare <week|month|year> <location>",
	Short: "Compare the latest temperature against a window average",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	setupLogging()
	window := analytics.Window(args[0])
	location := args[1]

	if _, err := window.Days(); err != nil {
		return err
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

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	cmp, err := analytics.NewEngine(s).CompareToWindow(ctx, location, window)
	if errors.Is(err, weather.ErrNoData) {
		fmt.Printf("No data available for %s.\n", location)
		return nil
	}
	if err != nil {
		return err
	}

	var phrase string
	switch cmp.Trend {
	case analytics.Above:
		phrase = "above"
	case analytics.Below:
		phrase = "below"
	default:
		phrase = "same as"
	}
	fmt.Printf("The current temperature is %g°C, which is %s the average temperature of %g°C for the past %s.\n",
		cmp.Current, phrase, cmp.Baseline, window)
	return nil
}
