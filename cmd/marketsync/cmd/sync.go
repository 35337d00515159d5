package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gradyserv/marketsync/internal/config"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single sync pass and exit",
	Long: "Fetches source price and quantity for every enabled mapping and pushes " +
		"the resulting revisions through the serialization queue, then exits. " +
		"Useful for cron-driven deployments and manual runs.",
	RunE: runSyncOnce,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newCLILogger(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	app, err := buildApp(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer app.close()

	summary, err := app.engine.RunSync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}

	logger.Info("sync pass complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return nil
}
