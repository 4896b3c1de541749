package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/RezaEskandarii/recordgrid/config"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	consoleconfig "github.com/RezaEskandarii/recordgrid/types/config"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "recordgrid",
		Short:         "Browse and manage the user collection of a remote API",
		Long:          `recordgrid drives a searchable, sortable and paginated user grid from a single address state, served as a web console, a terminal browser or a one-shot listing.`,
		SilenceUsage: true,
	}
	configPath string

	// selection flags shared by list and browse
	selection = struct {
		search string
		status string
		sort   string
		order  string
		page   int
		limit  int
	}{}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a recordgrid.yaml file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(serveCmd, browseCmd, listCmd, apiCmd)
}

// addClientFlags registers the flags of commands that talk to the remote API.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("api-url", "", "Base URL of the remote user API")
	cmd.Flags().String("token", "", "Bearer token forwarded to the remote API")
	cmd.Flags().String("cache", "", "Page cache driver (none, memory, redis)")
	cmd.Flags().String("broker", "", "Invalidation broker (none, memory, rabbitmq)")
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&selection.search, "search", "", "Initial search term")
	cmd.Flags().StringVar(&selection.status, "status", "", "Initial status filter (active, inactive)")
	cmd.Flags().StringVar(&selection.sort, "sort", "", "Initial sort field")
	cmd.Flags().StringVar(&selection.order, "order", "", "Initial sort order (asc, desc)")
	cmd.Flags().IntVar(&selection.page, "page", 0, "Initial page, 1-based")
	cmd.Flags().IntVar(&selection.limit, "limit", 0, "Initial page size")
}

// selectionValues is the initial address state; unset flags are left out.
func selectionValues() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(query.ParamSearch, selection.search)
	set(query.ParamStatus, selection.status)
	set(query.ParamSort, selection.sort)
	set(query.ParamOrder, selection.order)
	if selection.page > 0 {
		v.Set(query.ParamPage, strconv.Itoa(selection.page))
	}
	if selection.limit > 0 {
		v.Set(query.ParamLimit, strconv.Itoa(selection.limit))
	}
	return v
}

// loadConfig reads file, environment and flags, in increasing precedence,
// and installs the default logger.
func loadConfig(cmd *cobra.Command, logOutput io.Writer) (*consoleconfig.ConsoleConfig, *slog.Logger, error) {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd); err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger := config.SetupLogger(logOutput, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
