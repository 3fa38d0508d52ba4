package cmd

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusServer string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the health endpoint of a running daemon",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusServer, "server", "http://localhost:8080", "daemon server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
	resp, err := client.Get(statusServer + "/api/v1/health")
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", statusServer, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var health struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Uptime    string `json:"uptime"`
		Storage   string `json:"storage"`
		Path      string `json:"path"`
		Ingestion *struct {
			Location       string `json:"location"`
			CycleCount     int    `json:"cycle_count"`
			ErrorCount     int    `json:"error_count"`
			LastError      string `json:"last_error"`
			LastCycleAt    string `json:"last_cycle_at"`
			LastOutcome    string `json:"last_outcome"`
			LastObservedAt string `json:"last_observed_at"`
			Observations   int    `json:"observations"`
			OldestObserved string `json:"oldest_observed"`
			NewestObserved string `json:"newest_observed"`
		} `json:"ingestion"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&health); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	// Human-readable output.
	fmt.Printf("weather-cli %s\n", health.Version)
	fmt.Printf("Status: %s\n", health.Status)
	fmt.Printf("Uptime: %s\n", health.Uptime)

	if health.Path != "" {
		fmt.Printf("Database: %s (%s)\n", health.Storage, health.Path)
	} else {
		fmt.Printf("Database: %s\n", health.Storage)
	}

	if ing := health.Ingestion; ing != nil {
		fmt.Println()
		fmt.Printf("Ingestion: %s\n", ing.Location)
		fmt.Printf("  Cycles: %d (%d failed)\n", ing.CycleCount, ing.ErrorCount)
		if ing.LastCycleAt != "" {
			fmt.Printf("  Last cycle: %s (%s)\n", ing.LastCycleAt, ing.LastOutcome)
		}
		if ing.LastError != "" {
			fmt.Printf("  Last error: %s\n", ing.LastError)
		}
		fmt.Printf("  Observations: %d\n", ing.Observations)
		if ing.OldestObserved != "" {
			fmt.Printf("  Data range: %s to %s\n", ing.OldestObserved, ing.NewestObserved)
		}
	}

	return nil
}
