package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/ratelimit"
	"github.com/andrada/kijobs/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively browse one source's matching postings",
	Long:  "Pick a source, scrape it, and page through its matching postings in the terminal.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sources := cfg.EnabledSources()
	if len(sources) == 0 {
		logger.Error("no sources enabled")
		os.Exit(1)
	}

	idx, err := review.RunSourcePicker(sources)
	if err != nil {
		return err
	}
	if idx < 0 {
		return nil
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	limiter := ratelimit.NewHostLimiter(cfg.HTTP.DetailMinDelay)
	fetcher, ok := newFetcher(sources[idx], cfg, httpClient, limiter, logger)
	if !ok {
		logger.Error("unsupported source", "source", sources[idx])
		os.Exit(1)
	}

	return review.Run(sources[idx], fetcher, match.New(cfg.Keywords))
}
