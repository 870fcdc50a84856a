package pipeline

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/andrada/kijobs/internal/config"
	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory SeenStore for tests.
type memStore struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	saveErr error
	saved   int
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{seen: make(map[string]struct{})}
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return s
}

func (s *memStore) IsNew(id string) bool {
	_, ok := s.seen[id]
	return !ok
}

func (s *memStore) Record(p model.Posting, keywords []string) {
	s.seen[p.ID] = struct{}{}
}

func (s *memStore) Prune(current map[string]struct{}) int {
	removed := 0
	for id := range s.seen {
		if _, ok := current[id]; !ok {
			delete(s.seen, id)
			removed++
		}
	}
	return removed
}

func (s *memStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return s.saveErr
}

func (s *memStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func (s *memStore) Len() int { return len(s.seen) }

func posting(id, title string) model.Posting {
	return model.Posting{
		ID:     id,
		Title:  title,
		URL:    "https://example.com/jobs/" + id,
		Source: model.SourceKIDoctoral,
	}
}

func newTestProcessor(store model.SeenStore) *Processor {
	return NewProcessor(match.New(config.Default().Keywords), store, discardLogger())
}

func TestProcess_SplitsNewFromSeen(t *testing.T) {
	store := newMemStore("seen_1")
	p := newTestProcessor(store)

	postings := []model.Posting{
		posting("seen_1", "PhD in organoid biology"),
		posting("new_1", "PhD in CRISPR screening"),
		posting("boring_1", "Administrative assistant"),
	}

	newMatches, allMatches := p.Process(postings)

	if len(allMatches) != 2 {
		t.Fatalf("expected 2 matching postings, got %d", len(allMatches))
	}
	if len(newMatches) != 1 {
		t.Fatalf("expected 1 new match, got %d", len(newMatches))
	}
	if newMatches[0].ID != "new_1" {
		t.Errorf("new match ID = %q, want new_1", newMatches[0].ID)
	}
	if store.IsNew("new_1") {
		t.Error("expected new match to be recorded in the store")
	}
}

func TestProcess_SecondRunIsIdempotent(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store)

	postings := []model.Posting{
		posting("a", "PhD in organoid biology"),
		posting("b", "PhD in single-cell genomics"),
	}

	firstNew, firstAll := p.Process(postings)
	if len(firstNew) != 2 || len(firstAll) != 2 {
		t.Fatalf("first run: new=%d all=%d, want 2/2", len(firstNew), len(firstAll))
	}

	secondNew, secondAll := p.Process(postings)
	if len(secondNew) != 0 {
		t.Errorf("second run produced %d new matches, want 0", len(secondNew))
	}
	if len(secondAll) != 2 {
		t.Errorf("second run produced %d total matches, want 2", len(secondAll))
	}
}

func TestProcess_DuplicateIDInBatchReportedOnce(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store)

	postings := []model.Posting{
		posting("dup", "PhD in organoid biology"),
		posting("dup", "PhD in organoid biology"),
	}

	newMatches, _ := p.Process(postings)
	if len(newMatches) != 1 {
		t.Errorf("expected duplicate ID to yield 1 new match, got %d", len(newMatches))
	}
}

func TestProcess_ExcludedTitleNeverRecorded(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store)

	// Title mentions organoid but is a postdoc position.
	newMatches, allMatches := p.Process([]model.Posting{
		posting("pd_1", "Postdoc in organoid research"),
	})

	if len(newMatches) != 0 || len(allMatches) != 0 {
		t.Errorf("excluded title matched: new=%d all=%d", len(newMatches), len(allMatches))
	}
	if !store.IsNew("pd_1") {
		t.Error("excluded posting must not be recorded")
	}
}

func TestProcess_AnnotatesPriorityAndDeadline(t *testing.T) {
	store := newMemStore()
	p := newTestProcessor(store)
	p.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}

	soon := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	far := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	high := posting("h", "PhD position on iPSC models")
	high.DeadlineDate = &soon
	medium := posting("m", "PhD in developmental biology")
	medium.DeadlineDate = &far

	_, all := p.Process([]model.Posting{high, medium})
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(all))
	}

	if !all[0].HighPriority || !all[0].ClosingSoon {
		t.Errorf("first match: high=%v closing=%v, want true/true", all[0].HighPriority, all[0].ClosingSoon)
	}
	if all[1].HighPriority || all[1].ClosingSoon {
		t.Errorf("second match: high=%v closing=%v, want false/false", all[1].HighPriority, all[1].ClosingSoon)
	}
}
