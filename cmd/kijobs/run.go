package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrada/kijobs/internal/dashboard"
	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long:  "Scrape all sources, notify new matches, prune the store, and render the dashboard.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"sources", len(cfg.EnabledSources()),
		"high_keywords", len(cfg.Keywords.High),
		"medium_keywords", len(cfg.Keywords.Medium),
		"store_backend", cfg.Store.Backend,
	)

	seenStore, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	matcher := match.New(cfg.Keywords)
	notifier := setupNotifier(cfg, logger)
	renderer := dashboard.New(cfg.Dashboard.Path, cfg.Dashboard.Title, cfg.Ntfy.Topic, logger)

	fetchers := buildFetchers(cfg, httpClient, logger)
	if len(fetchers) == 0 {
		logger.Error("no sources to scrape")
		os.Exit(1)
	}

	processor := pipeline.NewProcessor(matcher, seenStore, logger)
	runner := pipeline.NewRunner(fetchers, processor, seenStore, notifier, renderer, cfg.Ntfy.Summary, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner.Run(ctx)
	return nil
}
