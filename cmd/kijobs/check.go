package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/notify"
	"github.com/andrada/kijobs/internal/pipeline"
	"github.com/andrada/kijobs/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scrape once, print matches, exit",
	Long:  "One-shot dry run: scrapes all sources and logs every matching posting. Nothing is persisted, pushed, or rendered.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be persisted or pushed")

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	matcher := match.New(cfg.Keywords)
	nopStore := store.NewNopStore()
	logNotifier := notify.NewLogNotifier(logger)

	fetchers := buildFetchers(cfg, httpClient, logger)
	if len(fetchers) == 0 {
		logger.Error("no sources to scrape")
		os.Exit(1)
	}

	processor := pipeline.NewProcessor(matcher, nopStore, logger)
	runner := pipeline.NewRunner(fetchers, processor, nopStore, logNotifier, nil, false, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner.Run(ctx)
	logger.Info("check complete")
	return nil
}
