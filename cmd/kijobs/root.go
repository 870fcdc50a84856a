package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrada/kijobs/internal/config"
	"github.com/andrada/kijobs/internal/model"
	"github.com/andrada/kijobs/internal/notify"
	"github.com/andrada/kijobs/internal/pipeline"
	"github.com/andrada/kijobs/internal/ratelimit"
	"github.com/andrada/kijobs/internal/scrape"
	"github.com/andrada/kijobs/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "kijobs",
	Short: "KI research position tracker",
	Long:  "kijobs scrapes KI job listings, alerts you to new matching positions, and renders a status page.",
	// Default to `run` so that `kijobs` with no args performs a full run.
	// This keeps cron entries that invoke the binary directly working.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: KIJOBS_CONFIG env var, ./kijobs.yaml, or built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > KIJOBS_CONFIG env var > ./kijobs.yaml if
// present > built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("KIJOBS_CONFIG"); env != "" {
			path = env
		} else if _, err := os.Stat("kijobs.yaml"); err == nil {
			path = "kijobs.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	if cfg.Ntfy.Topic == "" {
		return notify.NewLogNotifier(logger)
	}
	client := &http.Client{Timeout: cfg.Ntfy.Timeout}
	logger.Info("using ntfy notifier", "topic", cfg.Ntfy.Topic)
	return notify.NewNtfy(cfg.Ntfy.BaseURL, cfg.Ntfy.Topic, cfg.Keywords.High, client, logger)
}

// openStore builds the configured seen-jobs backend. The returned closer is a
// no-op for the JSON backend.
func openStore(cfg *config.Config, logger *slog.Logger) (model.SeenStore, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.OpenSQLite(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return store.OpenFile(cfg.Store.Path, logger), func() {}, nil
	}
}

func buildFetchers(cfg *config.Config, client *http.Client, logger *slog.Logger) []pipeline.SourceFetcher {
	limiter := ratelimit.NewHostLimiter(cfg.HTTP.DetailMinDelay)

	var fetchers []pipeline.SourceFetcher
	for _, src := range cfg.EnabledSources() {
		f, ok := newFetcher(src, cfg, client, limiter, logger)
		if !ok {
			logger.Warn("unsupported source, skipping", "source", src)
			continue
		}
		fetchers = append(fetchers, pipeline.SourceFetcher{Source: src, Fetcher: f})
		logger.Info("registered source", "source", src)
	}
	return fetchers
}

func newFetcher(src model.Source, cfg *config.Config, client *http.Client, limiter *ratelimit.HostLimiter, logger *slog.Logger) (model.Fetcher, bool) {
	switch src {
	case model.SourceKIDoctoral:
		return scrape.NewKIDoctoral(client, cfg.HTTP, limiter, logger), true
	case model.SourceKIStaff:
		return scrape.NewKIStaff(client, cfg.HTTP, logger), true
	case model.SourceAcademicPositions:
		return scrape.NewAcademicPositions(client, cfg.HTTP, logger), true
	default:
		return nil, false
	}
}
