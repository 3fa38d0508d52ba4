package cmd

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/syedjakeer1992/weather-cli-app/internal/analytics"
	"github.com/syedjakeer1992/weather-cli-app/internal/config"
	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

var averageCmd = &cobra.Command{
	Use:   "average <month> <year> <location>",
	Short: "Show the average temperature for a month and year",
	Long: `Computes the average temperature for the given month (MM) and year
(YYYY) as the mean of per-day averages, so days with many intraday
samples do not outweigh days with one.`,
	Args: cobra.ExactArgs(3),
	RunE: runAverage,
}

var (
	monthArg = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	yearArg  = regexp.MustCompile(`^\d{4}$`)
)

func init() {
	rootCmd.AddCommand(averageCmd)
}

func runAverage(cmd *cobra.Command, args []string) error {
	setupLogging()
	month, year, location := args[0], args[1], args[2]

	if !monthArg.MatchString(month) {
		return fmt.Errorf("month must be MM (01-12), got %q", month)
	}
	if !yearArg.MatchString(year) {
		return fmt.Errorf("year must be YYYY, got %q", year)
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

	avg, err := analytics.NewEngine(s).MonthlyAverage(ctx, location, month, year)
	if errors.Is(err, weather.ErrNoData) {
		fmt.Printf("No data available for %s/%s.\n", month, year)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("The average temperature for %s/%s was %g°C.\n", month, year, avg)
	return nil
}
