package main

import (
	"os/signal"
	"syscall"

	"github.com/RezaEskandarii/recordgrid/app"
	"github.com/RezaEskandarii/recordgrid/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web console",
	Long:  `Serves the server-rendered console; the request query string is the grid state, so every view can be bookmarked and shared.`,
	RunE:  runServe,
}

func init() {
	addClientFlags(serveCmd)
	serveCmd.Flags().Uint("port", 0, "Port the web console listens on")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	container, err := app.NewContainer(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer container.Close()

	go func() {
		if err := container.Bus.Listen(ctx); err != nil {
			logger.Error("invalidation listener stopped", "error", err)
		}
	}()

	handler, err := web.NewRouteHandler(container, cfg.DashboardPort)
	if err != nil {
		return err
	}
	return handler.Serve(ctx)
}
