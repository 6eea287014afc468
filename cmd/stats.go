package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bionovax/bionova/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cumulative request counts per API endpoint",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := metrics.Init(); err != nil {
		return fmt.Errorf("failed to open metrics store: %w", err)
	}
	defer func() { _ = metrics.Close() }()

	stats, err := metrics.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read request counts: %w", err)
	}

	fmt.Println("Request counts:")
	for _, endpoint := range metrics.AllEndpoints {
		fmt.Printf("  %-20s %d\n", endpoint, stats[endpoint])
	}

	return nil
}
