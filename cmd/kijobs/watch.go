package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrada/kijobs/internal/dashboard"
	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/pipeline"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline repeatedly on an interval",
	Long:  "Runs the full pipeline immediately and then once per interval, until SIGINT/SIGTERM. Each cycle is an independent run.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 6*time.Hour, "time between runs")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	runner.RunLoop(ctx, watchInterval)
	logger.Info("goodbye")
	return nil
}
