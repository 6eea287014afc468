package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bionova",
	Short: "BioNova-X - AI search backend for NASA space biology research",
	Long: `BioNova-X is the backend service for an AI-powered search experience over
NASA's space biology research. It turns free-text queries and structured
filters into schema-bound Gemini requests, caches search results, and
streams conversational follow-ups about a result set.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
