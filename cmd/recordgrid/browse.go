package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/RezaEskandarii/recordgrid/app"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/session"
	"github.com/RezaEskandarii/recordgrid/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	browseCmd = &cobra.Command{
		Use:   "browse",
		Short: "Browse users in the terminal",
		RunE:  runBrowse,
	}
	browseLogFile string
)

func init() {
	addClientFlags(browseCmd)
	addSelectionFlags(browseCmd)
	browseCmd.Flags().String("refresh", "", "Cron schedule re-fetching the current page, e.g. \"@every 30s\"")
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file; logs are discarded otherwise")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The terminal belongs to the browser, so logs never go to stderr.
	var logOutput io.Writer = io.Discard
	if browseLogFile != "" {
		f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOutput = f
	}

	cfg, logger, err := loadConfig(cmd, logOutput)
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

	model := tui.NewModel(ctx, tui.Config{
		Source:   container.Source,
		Defaults: cfg.Grid,
		Mutator:  container.Gateway,
		Stats:    container.Users,
		Logger:   logger,
		Initial:  selectionValues(),
		SessionOptions: []session.Option{
			session.WithFetcherOptions(
				fetcher.WithTimeout(cfg.FetchTimeout),
				fetcher.WithRecorder(container.Metrics),
			),
		},
	})

	err = tui.Run(ctx, model, cfg.RefreshSchedule, container.Bus)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
