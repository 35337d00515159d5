// Package cmd implements the CLI commands for the marketsync server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "marketsync",
	Short: "Sync source marketplace prices into eBay listings",
	Long: "A service that mirrors price and quantity from a source marketplace feed " +
		"into eBay listings through the legacy XML Trading API, with offer quantity " +
		"mirroring via the REST Inventory API. Revisions are rate-governed and " +
		"serialized so concurrent writes never race on the same listing.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
