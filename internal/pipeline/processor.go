// Package pipeline orchestrates one run: scrape, match, dedup, notify, prune,
// persist, render. Every failure inside a run is logged and counted; nothing
// aborts the run.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/model"
)

// Processor splits scraped postings into "new matching" and "all matching".
// It mutates the store in place (new matches are recorded immediately) but
// never persists it; saving is the runner's job, after pruning.
type Processor struct {
	matcher *match.Matcher
	store   model.SeenStore
	now     func() time.Time
	logger  *slog.Logger
}

// NewProcessor wires a processor with its matcher and store.
func NewProcessor(matcher *match.Matcher, store model.SeenStore, logger *slog.Logger) *Processor {
	return &Processor{
		matcher: matcher,
		store:   store,
		now:     time.Now,
		logger:  logger,
	}
}

// Process classifies each posting. Recording a new ID before moving on means a
// duplicate ID later in the same batch is reported only once.
func (p *Processor) Process(postings []model.Posting) (newMatches, allMatches []model.Match) {
	now := p.now()

	for _, posting := range postings {
		if p.matcher.ExcludedTitle(posting.Title) {
			p.logger.Debug("title excluded", "id", posting.ID, "title", posting.Title)
			continue
		}

		keywords := p.matcher.Match(posting.Title, posting.Description)
		if len(keywords) == 0 {
			continue
		}

		m := model.Match{
			Posting:      posting,
			Keywords:     keywords,
			HighPriority: p.matcher.HighPriority(keywords),
			ClosingSoon:  match.ClosingSoon(posting.DeadlineDate, now),
		}
		allMatches = append(allMatches, m)

		if p.store.IsNew(posting.ID) {
			newMatches = append(newMatches, m)
			p.store.Record(posting, keywords)
		}
	}

	return newMatches, allMatches
}
