package main

import (
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "ratesync",
	Short: "Manage the exchange rate source",
	Long: "ratesync configures the Open Exchange Rates source, tests the connection, " +
		"manages base currencies and runs the scheduled rate sync and prune tasks.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show status
		return statusCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(testConnectionCmd)
	rootCmd.AddCommand(updateRatesCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(currenciesCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pruneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
