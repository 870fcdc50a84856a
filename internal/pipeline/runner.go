package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/andrada/kijobs/internal/model"
)

// DashboardRenderer is what the runner needs from the dashboard layer. A nil
// renderer disables rendering (check mode).
type DashboardRenderer interface {
	Render(matches []model.Match, lastUpdated time.Time) error
}

// SourceFetcher pairs a source identifier with its adapter.
type SourceFetcher struct {
	Source  model.Source
	Fetcher model.Fetcher
}

// SourceOutcome records how one source's scrape went.
type SourceOutcome struct {
	Source model.Source
	Count  int
	Err    error
}

// RunStats aggregates per-item outcomes into run-level counts.
type RunStats struct {
	Scraped      int
	Matching     int
	New          int
	Notified     int
	NotifyFailed int
	Pruned       int
	Sources      []SourceOutcome
}

// Runner executes the full pipeline, strictly sequentially.
type Runner struct {
	fetchers    []SourceFetcher
	processor   *Processor
	store       model.SeenStore
	notifier    model.Notifier
	renderer    DashboardRenderer
	sendSummary bool
	now         func() time.Time
	logger      *slog.Logger
}

// NewRunner wires a runner with all its dependencies.
func NewRunner(
	fetchers []SourceFetcher,
	processor *Processor,
	store model.SeenStore,
	notifier model.Notifier,
	renderer DashboardRenderer,
	sendSummary bool,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		fetchers:    fetchers,
		processor:   processor,
		store:       store,
		notifier:    notifier,
		renderer:    renderer,
		sendSummary: sendSummary,
		now:         time.Now,
		logger:      logger,
	}
}

// Run executes one full run. Failures during scraping, notification,
// persistence, and rendering are logged and counted; the run always completes.
func (r *Runner) Run(ctx context.Context) RunStats {
	var stats RunStats

	r.logger.Info("run starting", "previously_seen", r.store.Len())

	var postings []model.Posting
	for _, sf := range r.fetchers {
		if ctx.Err() != nil {
			break
		}
		fetched, err := sf.Fetcher.FetchPostings(ctx)
		outcome := SourceOutcome{Source: sf.Source, Count: len(fetched), Err: err}
		stats.Sources = append(stats.Sources, outcome)
		if err != nil {
			r.logger.Error("scrape failed, skipping source", "source", sf.Source, "error", err)
			continue
		}
		r.logger.Info("scraped source", "source", sf.Source, "postings", len(fetched))
		postings = append(postings, fetched...)
	}
	stats.Scraped = len(postings)

	// The current-ID set spans every scraped posting, matching or not, so
	// pruning only removes postings that genuinely left the listings.
	currentIDs := make(map[string]struct{}, len(postings))
	for _, p := range postings {
		currentIDs[p.ID] = struct{}{}
	}

	newMatches, allMatches := r.processor.Process(postings)
	stats.Matching = len(allMatches)
	stats.New = len(newMatches)

	for _, m := range newMatches {
		r.logger.Info("new matching posting", "title", m.Title, "keywords", m.Keywords)
		if err := r.notifier.Notify(m); err != nil {
			r.logger.Error("notification failed", "id", m.ID, "error", err)
			stats.NotifyFailed++
			continue
		}
		stats.Notified++
	}

	// An interrupted run did not observe the full listings: pruning against
	// the partial current-ID set would drop records for postings that are
	// still listed, and saving would persist that truncated state. Leave the
	// database untouched; the next complete run settles it.
	if ctx.Err() != nil {
		r.logger.Warn("run interrupted, keeping seen-jobs database unchanged")
	} else {
		stats.Pruned = r.store.Prune(currentIDs)
		if stats.Pruned > 0 {
			r.logger.Info("pruned expired postings", "removed", stats.Pruned)
		}

		if err := r.store.Save(); err != nil {
			r.logger.Error("failed to save seen-jobs database", "error", err)
		}

		if r.renderer != nil {
			if err := r.renderer.Render(allMatches, r.now()); err != nil {
				r.logger.Error("failed to render dashboard", "error", err)
			}
		}

		if r.sendSummary {
			if err := r.notifier.Summary(stats.New, stats.Matching); err != nil {
				r.logger.Error("summary notification failed", "error", err)
			}
		}
	}

	r.logger.Info("run complete",
		"scraped", stats.Scraped,
		"matching", stats.Matching,
		"new", stats.New,
		"notified", stats.Notified,
		"notify_failed", stats.NotifyFailed,
		"pruned", stats.Pruned,
	)

	return stats
}

// RunLoop re-runs the pipeline on an interval until the context is cancelled.
// One immediate run, then a tick per interval; each tick is an independent run.
func (r *Runner) RunLoop(ctx context.Context, interval time.Duration) {
	r.logger.Info("starting watch loop", "interval", interval.String())

	r.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down watch loop")
			return
		case <-time.After(interval):
			r.Run(ctx)
		}
	}
}
