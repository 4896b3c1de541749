package main

import (
	"os/signal"
	"syscall"

	"github.com/RezaEskandarii/recordgrid/app"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the reference user API",
	Long:  `Runs a development backend implementing the remote list, mutation and stats contract over memory or Postgres, so the consoles can run end to end.`,
	RunE:  runAPI,
}

func init() {
	apiCmd.Flags().String("listen", "", "Address the API listens on")
	apiCmd.Flags().String("storage", "", "Storage driver (memory, postgres)")
	apiCmd.Flags().String("postgres-url", "", "Postgres connection URL")
	apiCmd.Flags().Int("seed", 0, "Number of demo users to create on startup")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	backend, err := app.NewBackend(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer backend.Close()

	logger.Info("reference api starting", "listen", cfg.Server.Listen, "storage", cfg.Server.StorageDriver)
	return backend.Run(ctx, cfg.Server.Listen, logger)
}
